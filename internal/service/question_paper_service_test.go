package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
)

func setupTestPaperService() (QuestionPaperService, *mockRepos) {
	m := newMockRepos()
	return NewQuestionPaperService(m.repo, zap.NewNop()), m
}

func paperReq() *dto.CreatePaperRequest {
	return &dto.CreatePaperRequest{
		SubjectCode: "cs 501",
		ExamLabel:   "ia-1",
		Questions: []dto.QuestionInput{
			{ID: "q1a", Marks: 5, CO: "co1", Level: "l2"},
			{ID: "q1b", Marks: 5, CO: "CO2"},
			{ID: "q2", Marks: 10, CO: "CO3"},
		},
	}
}

func TestQuestionPaperService_Create(t *testing.T) {
	svc, _ := setupTestPaperService()

	res, err := svc.Create(context.Background(), paperReq(), "faculty-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if res.SubjectCode != "CS501" || res.ExamLabel != "IA1" {
		t.Errorf("codes should be canonical, got %s / %s", res.SubjectCode, res.ExamLabel)
	}
	if res.Status != model.PaperStatusDraft || res.Version != 1 {
		t.Errorf("new paper should be a version 1 draft, got %s v%d", res.Status, res.Version)
	}
	if res.MaxMarks != 20 {
		t.Errorf("want max marks 20, got %v", res.MaxMarks)
	}
	if res.Questions[0].ID != "Q1A" || res.Questions[0].CO != "CO1" || res.Questions[0].Level != "L2" {
		t.Errorf("question not canonicalized: %+v", res.Questions[0])
	}
}

func TestQuestionPaperService_Create_Duplicate(t *testing.T) {
	svc, _ := setupTestPaperService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, paperReq(), "faculty-1"); err != nil {
		t.Fatalf("first Create should succeed: %v", err)
	}
	req := paperReq()
	req.SubjectCode = "CS-501"
	if _, err := svc.Create(ctx, req, "faculty-1"); !errors.Is(err, ErrPaperExists) {
		t.Errorf("want ErrPaperExists, got %v", err)
	}
}

func TestQuestionPaperService_Create_Invalid(t *testing.T) {
	cases := []struct {
		name      string
		questions []dto.QuestionInput
	}{
		{"empty", nil},
		{"duplicate id", []dto.QuestionInput{{ID: "Q1", Marks: 2, CO: "CO1"}, {ID: "q-1", Marks: 2, CO: "CO1"}}},
		{"zero marks", []dto.QuestionInput{{ID: "Q1", Marks: 0, CO: "CO1"}}},
		{"unknown outcome", []dto.QuestionInput{{ID: "Q1", Marks: 2, CO: "CO7"}}},
		{"po instead of co", []dto.QuestionInput{{ID: "Q1", Marks: 2, CO: "PO1"}}},
		{"unknown level", []dto.QuestionInput{{ID: "Q1", Marks: 2, CO: "CO1", Level: "L9"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := setupTestPaperService()
			req := paperReq()
			req.Questions = tc.questions
			if _, err := svc.Create(context.Background(), req, "faculty-1"); !errors.Is(err, ErrPaperInvalid) {
				t.Errorf("want ErrPaperInvalid, got %v", err)
			}
		})
	}
}

func TestQuestionPaperService_Workflow(t *testing.T) {
	svc, _ := setupTestPaperService()
	ctx := context.Background()

	created, err := svc.Create(ctx, paperReq(), "faculty-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}

	// approve straight from draft is not allowed
	if _, err := svc.Approve(ctx, created.ID, "admin-1"); !errors.Is(err, ErrPaperTransitionInvalid) {
		t.Fatalf("want ErrPaperTransitionInvalid approving a draft, got %v", err)
	}

	submitted, err := svc.Submit(ctx, created.ID, "faculty-1")
	if err != nil {
		t.Fatalf("Submit should succeed: %v", err)
	}
	if submitted.Status != model.PaperStatusSubmitted || submitted.SubmittedBy != "faculty-1" || submitted.SubmittedAt == nil {
		t.Errorf("unexpected submitted paper %+v", submitted)
	}

	// submitted papers are frozen
	upd := &dto.UpdatePaperRequest{Questions: paperReq().Questions, Version: submitted.Version}
	if _, err := svc.Update(ctx, created.ID, upd, "faculty-1"); !errors.Is(err, ErrPaperTransitionInvalid) {
		t.Errorf("want ErrPaperTransitionInvalid updating a submitted paper, got %v", err)
	}
	if err := svc.Delete(ctx, created.ID, "faculty-1"); !errors.Is(err, ErrPaperTransitionInvalid) {
		t.Errorf("want ErrPaperTransitionInvalid deleting a submitted paper, got %v", err)
	}

	approved, err := svc.Approve(ctx, created.ID, "admin-1")
	if err != nil {
		t.Fatalf("Approve should succeed: %v", err)
	}
	if approved.Status != model.PaperStatusApproved || approved.ApprovedBy != "admin-1" {
		t.Errorf("unexpected approved paper %+v", approved)
	}
	if approved.Version != 3 {
		t.Errorf("each transition bumps the version, want 3 got %d", approved.Version)
	}

	if _, err := svc.Submit(ctx, created.ID, "faculty-1"); !errors.Is(err, ErrPaperTransitionInvalid) {
		t.Errorf("want ErrPaperTransitionInvalid resubmitting, got %v", err)
	}

	list, err := svc.ListBySubject(ctx, "cs501", &dto.PaperListRequest{Status: model.PaperStatusApproved})
	if err != nil || len(list) != 1 {
		t.Errorf("want one approved paper, got %d (%v)", len(list), err)
	}
}

func TestQuestionPaperService_Update_VersionConflict(t *testing.T) {
	svc, _ := setupTestPaperService()
	ctx := context.Background()

	created, err := svc.Create(ctx, paperReq(), "faculty-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}

	upd := &dto.UpdatePaperRequest{
		Questions: []dto.QuestionInput{{ID: "Q1", Marks: 50, CO: "CO1"}},
		Version:   created.Version,
	}
	res, err := svc.Update(ctx, created.ID, upd, "faculty-2")
	if err != nil {
		t.Fatalf("Update should succeed: %v", err)
	}
	if res.Version != 2 || res.MaxMarks != 50 {
		t.Errorf("want version 2 with 50 marks, got v%d %v", res.Version, res.MaxMarks)
	}

	// a second writer still holding version 1
	if _, err := svc.Update(ctx, created.ID, upd, "faculty-3"); !errors.Is(err, ErrPaperVersionConflict) {
		t.Errorf("want ErrPaperVersionConflict, got %v", err)
	}
}

func TestQuestionPaperService_NotFound(t *testing.T) {
	svc, _ := setupTestPaperService()
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, "missing"); !errors.Is(err, ErrPaperNotFound) {
		t.Errorf("want ErrPaperNotFound, got %v", err)
	}
	if _, err := svc.GetBySubjectExam(ctx, "CS501", "IA1"); !errors.Is(err, ErrPaperNotFound) {
		t.Errorf("want ErrPaperNotFound, got %v", err)
	}
	if _, err := svc.Submit(ctx, "missing", "faculty-1"); !errors.Is(err, ErrPaperNotFound) {
		t.Errorf("want ErrPaperNotFound, got %v", err)
	}
}

func TestQuestionPaperService_DeleteDraft(t *testing.T) {
	svc, m := setupTestPaperService()
	ctx := context.Background()

	created, err := svc.Create(ctx, paperReq(), "faculty-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if err := svc.Delete(ctx, created.ID, "faculty-1"); err != nil {
		t.Fatalf("deleting a draft should succeed: %v", err)
	}
	if len(m.paper.papers) != 0 {
		t.Error("draft should be gone")
	}
}
