package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"acadtrack/backend/internal/attainment"
	"acadtrack/backend/internal/model"
)

func TestAttainmentService_Calculate(t *testing.T) {
	m := newMockRepos()
	svc := NewAttainmentService(m.repo, zap.NewNop())
	seedMarksCS501(m)
	// a draft paper for another exam does not count
	seedPaper(m, "CS501", "IA2", model.Question{ID: "Q1", Marks: 10, CO: "CO3"})
	p, _ := m.paper.GetBySubjectExam(context.Background(), "CS501", "IA2")
	p.Status = model.PaperStatusDraft
	m.paper.papers[p.PaperID] = *p
	m.mark.records["IA2_CS501_1CS001"] = model.MarkRecord{
		RecordID: "IA2_CS501_1CS001", ExamLabel: "IA2", SubjectCode: "CS501", StudentID: "1CS001",
		Scores: model.ScoreMap{"Q1": 1},
	}

	res, err := svc.Calculate(context.Background(), "cs501")
	if err != nil {
		t.Fatalf("Calculate should succeed: %v", err)
	}
	if res.StudentsConsidered != 2 {
		t.Errorf("want 2 students, got %d", res.StudentsConsidered)
	}
	if len(res.ExamsConsidered) != 1 || res.ExamsConsidered[0] != "IA1" {
		t.Errorf("want only IA1 considered, got %v", res.ExamsConsidered)
	}
	if len(res.ExamsDiscarded) != 1 || res.ExamsDiscarded[0] != "IA2" {
		t.Errorf("want IA2 discarded, got %v", res.ExamsDiscarded)
	}
	if res.SkippedEntries != 1 {
		t.Errorf("X9 should be skipped, got %d", res.SkippedEntries)
	}
	if res.COLevels["CO1"] != 3 || res.COLevels["CO2"] != 3 {
		t.Errorf("unexpected levels %v", res.COLevels)
	}
	if _, ok := res.COLevels["CO3"]; ok {
		t.Error("CO3 has no eligible student and must be omitted")
	}
	if len(res.POScores) != 0 {
		t.Errorf("no matrix means no PO scores, got %v", res.POScores)
	}
}

func TestAttainmentService_Calculate_NoMarks(t *testing.T) {
	m := newMockRepos()
	svc := NewAttainmentService(m.repo, zap.NewNop())

	if _, err := svc.Calculate(context.Background(), "CS999"); !errors.Is(err, attainment.ErrNoMarks) {
		t.Errorf("expected ErrNoMarks, got %v", err)
	}
}

func TestAttainmentService_Calculate_ReportsCappedScores(t *testing.T) {
	m := newMockRepos()
	svc := NewAttainmentService(m.repo, zap.NewNop())
	seedPaper(m, "CS501", "IA1", model.Question{ID: "Q1", Marks: 10, CO: "CO1"})
	// stored before the paper existed, so never range checked
	m.mark.records["IA1_CS501_1CS001"] = model.MarkRecord{
		RecordID: "IA1_CS501_1CS001", ExamLabel: "IA1", SubjectCode: "CS501", StudentID: "1CS001",
		Scores: model.ScoreMap{"Q1": 25},
	}

	res, err := svc.Calculate(context.Background(), "CS501")
	if err != nil {
		t.Fatalf("Calculate should succeed: %v", err)
	}
	if res.CappedEntries != 1 {
		t.Errorf("expected 1 capped entry, got %d", res.CappedEntries)
	}
}
