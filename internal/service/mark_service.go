package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── marks module errors ──

var (
	ErrMarkNotFound          = errors.New("mark record not found")
	ErrMarkUnknownQuestion   = errors.New("score given for a question that is not on the paper")
	ErrMarkScoreOutOfRange   = errors.New("score outside the question's range")
	ErrMarkDuplicate         = errors.New("student appears more than once in the submission")
	ErrMarkEmpty             = errors.New("no scores given")
	ErrMarkDuplicateQuestion = errors.New("question given more than once in one record")
)

// MarkService internal assessment marks
type MarkService interface {
	Upsert(ctx context.Context, req *dto.UpsertMarkRequest, callerID string) (*dto.MarkResponse, error)
	// BulkUpsert writes a whole class in one transaction; any invalid entry rejects all
	BulkUpsert(ctx context.Context, req *dto.BulkUpsertMarksRequest, callerID string) ([]dto.MarkResponse, error)
	ListBySubject(ctx context.Context, subjectCode string, req *dto.MarkListRequest) ([]dto.MarkResponse, error)
	ListByStudent(ctx context.Context, caller Caller, studentID string) ([]dto.MarkResponse, error)
	Delete(ctx context.Context, recordID string) error
}

type markService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMarkService creates a MarkService
func NewMarkService(repo *repository.Repository, logger *zap.Logger) MarkService {
	return &markService{repo: repo, logger: logger}
}

// MarkRecordID storage key of one student's marks in one exam
func MarkRecordID(examLabel, subjectCode, studentID string) string {
	return normalizeCode(examLabel) + "_" + normalizeCode(subjectCode) + "_" + normalizeCode(studentID)
}

// ────────────────────── Upsert ──────────────────────

func (s *markService) Upsert(ctx context.Context, req *dto.UpsertMarkRequest, callerID string) (*dto.MarkResponse, error) {
	out, err := s.BulkUpsert(ctx, &dto.BulkUpsertMarksRequest{
		ExamLabel:   req.ExamLabel,
		SubjectCode: req.SubjectCode,
		Entries:     []dto.BulkMarkEntry{{StudentID: req.StudentID, Scores: req.Scores}},
	}, callerID)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ────────────────────── BulkUpsert ──────────────────────

func (s *markService) BulkUpsert(ctx context.Context, req *dto.BulkUpsertMarksRequest, callerID string) ([]dto.MarkResponse, error) {
	exam := normalizeCode(req.ExamLabel)
	subject := normalizeCode(req.SubjectCode)

	var questions map[string]model.Question
	paper, err := s.repo.Paper.GetBySubjectExam(ctx, subject, exam)
	switch {
	case err == nil:
		questions = paper.QuestionIndex()
	case errors.Is(err, gorm.ErrRecordNotFound):
		// marks entered ahead of the paper are stored unchecked
	default:
		s.logger.Error("load question paper failed", zap.String("subject_code", subject), zap.String("exam_label", exam), zap.Error(err))
		return nil, err
	}

	records := make([]model.MarkRecord, 0, len(req.Entries))
	ids := make([]string, 0, len(req.Entries))
	seen := make(map[string]bool, len(req.Entries))
	for _, e := range req.Entries {
		sid := normalizeCode(e.StudentID)
		if sid == "" {
			return nil, ErrStudentNotFound
		}
		if seen[sid] {
			return nil, fmt.Errorf("%w: %s", ErrMarkDuplicate, sid)
		}
		seen[sid] = true

		scores, err := checkScores(sid, e.Scores, questions)
		if err != nil {
			return nil, err
		}

		rec := model.MarkRecord{
			RecordID:    MarkRecordID(exam, subject, sid),
			ExamLabel:   exam,
			SubjectCode: subject,
			StudentID:   sid,
			Scores:      scores,
			Total:       scores.Total(),
			EnteredBy:   &callerID,
		}
		rec.CreatedBy = &callerID
		rec.UpdatedBy = &callerID
		records = append(records, rec)
		ids = append(ids, sid)
	}

	known, err := s.repo.Student.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("load students failed", zap.Error(err))
		return nil, err
	}
	if len(known) != len(ids) {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, missingStudents(ids, known))
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	if err := s.repo.WithTx(tx).Mark.Upsert(ctx, records); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("upsert marks failed", zap.String("subject_code", subject), zap.String("exam_label", exam), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit transaction failed", zap.Error(err))
			return nil, err
		}
	}

	result := make([]dto.MarkResponse, 0, len(records))
	for i := range records {
		result = append(result, *toMarkResponse(&records[i]))
	}
	return result, nil
}

// checkScores canonicalizes question ids and validates them against the paper when one exists
func checkScores(studentID string, in map[string]float64, questions map[string]model.Question) (model.ScoreMap, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMarkEmpty, studentID)
	}
	out := make(model.ScoreMap, len(in))
	for qid, score := range in {
		id := normalizeCode(qid)
		if _, dup := out[id]; dup {
			return nil, fmt.Errorf("%w: student %s question %s", ErrMarkDuplicateQuestion, studentID, id)
		}
		if questions != nil {
			q, ok := questions[id]
			if !ok {
				return nil, fmt.Errorf("%w: student %s question %q", ErrMarkUnknownQuestion, studentID, qid)
			}
			if score < 0 || score > q.Marks {
				return nil, fmt.Errorf("%w: student %s question %s score %g of %g", ErrMarkScoreOutOfRange, studentID, id, score, q.Marks)
			}
		} else if score < 0 {
			return nil, fmt.Errorf("%w: student %s question %s score %g", ErrMarkScoreOutOfRange, studentID, id, score)
		}
		out[id] = score
	}
	return out, nil
}

func missingStudents(ids []string, known []model.Student) string {
	have := make(map[string]bool, len(known))
	for _, st := range known {
		have[st.StudentID] = true
	}
	var missing []string
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return fmt.Sprint(missing)
}

// ────────────────────── ListBySubject ──────────────────────

func (s *markService) ListBySubject(ctx context.Context, subjectCode string, req *dto.MarkListRequest) ([]dto.MarkResponse, error) {
	subject := normalizeCode(subjectCode)
	records, err := s.repo.Mark.ListBySubject(ctx, subject, normalizeCode(req.ExamLabel))
	if err != nil {
		s.logger.Error("list marks failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}
	return toMarkResponses(records), nil
}

// ────────────────────── ListByStudent ──────────────────────

func (s *markService) ListByStudent(ctx context.Context, caller Caller, studentID string) ([]dto.MarkResponse, error) {
	sid, err := studentScope(caller, studentID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.Mark.ListByStudent(ctx, sid)
	if err != nil {
		s.logger.Error("list marks failed", zap.String("student_id", sid), zap.Error(err))
		return nil, err
	}
	return toMarkResponses(records), nil
}

// ────────────────────── Delete ──────────────────────

func (s *markService) Delete(ctx context.Context, recordID string) error {
	if err := s.repo.Mark.Delete(ctx, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMarkNotFound
		}
		s.logger.Error("delete mark record failed", zap.String("record_id", recordID), zap.Error(err))
		return err
	}
	return nil
}

func toMarkResponses(records []model.MarkRecord) []dto.MarkResponse {
	result := make([]dto.MarkResponse, 0, len(records))
	for i := range records {
		result = append(result, *toMarkResponse(&records[i]))
	}
	return result
}

func toMarkResponse(r *model.MarkRecord) *dto.MarkResponse {
	return &dto.MarkResponse{
		RecordID:    r.RecordID,
		ExamLabel:   r.ExamLabel,
		SubjectCode: r.SubjectCode,
		StudentID:   r.StudentID,
		Scores:      map[string]float64(r.Scores),
		Total:       r.Total,
	}
}
