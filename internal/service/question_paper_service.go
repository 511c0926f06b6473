package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/attainment"
	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
	pkgerrors "acadtrack/backend/pkg/errors"
)

// ── question paper module errors ──

var (
	ErrPaperNotFound          = errors.New("question paper not found")
	ErrPaperExists            = errors.New("a question paper already exists for this subject and exam")
	ErrPaperInvalid           = errors.New("invalid question paper")
	ErrPaperTransitionInvalid = errors.New("question paper status does not allow this operation")
	ErrPaperVersionConflict   = errors.New("question paper was modified concurrently, reload and retry")
)

// QuestionPaperService question pattern workflow: draft → submitted → approved
type QuestionPaperService interface {
	Create(ctx context.Context, req *dto.CreatePaperRequest, callerID string) (*dto.PaperResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PaperResponse, error)
	GetBySubjectExam(ctx context.Context, subjectCode, examLabel string) (*dto.PaperResponse, error)
	ListBySubject(ctx context.Context, subjectCode string, req *dto.PaperListRequest) ([]dto.PaperResponse, error)
	// Update replaces the questions of a draft; req.Version must match the stored version
	Update(ctx context.Context, id string, req *dto.UpdatePaperRequest, callerID string) (*dto.PaperResponse, error)
	Submit(ctx context.Context, id string, callerID string) (*dto.PaperResponse, error)
	Approve(ctx context.Context, id string, callerID string) (*dto.PaperResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type questionPaperService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQuestionPaperService creates a QuestionPaperService
func NewQuestionPaperService(repo *repository.Repository, logger *zap.Logger) QuestionPaperService {
	return &questionPaperService{repo: repo, logger: logger}
}

// buildQuestions validates and canonicalizes a question list
func buildQuestions(in []dto.QuestionInput) ([]model.Question, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: at least one question is required", ErrPaperInvalid)
	}
	seen := make(map[string]bool, len(in))
	out := make([]model.Question, 0, len(in))
	for i, q := range in {
		id := normalizeCode(q.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: question %d has an empty id", ErrPaperInvalid, i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate question id %s", ErrPaperInvalid, id)
		}
		seen[id] = true

		if q.Marks <= 0 {
			return nil, fmt.Errorf("%w: question %s must carry positive marks", ErrPaperInvalid, id)
		}
		co := normalizeCode(q.CO)
		if !attainment.IsCO(co) {
			return nil, fmt.Errorf("%w: question %s maps to unknown outcome %q", ErrPaperInvalid, id, q.CO)
		}
		level := normalizeCode(q.Level)
		if level != "" && !validLevel(level) {
			return nil, fmt.Errorf("%w: question %s has unknown level %q", ErrPaperInvalid, id, q.Level)
		}

		out = append(out, model.Question{
			ID:    id,
			Text:  strings.TrimSpace(q.Text),
			Marks: q.Marks,
			CO:    co,
			Level: level,
		})
	}
	return out, nil
}

// validLevel cognitive levels L1..L6
func validLevel(l string) bool {
	return len(l) == 2 && l[0] == 'L' && l[1] >= '1' && l[1] <= '6'
}

// ────────────────────── Create ──────────────────────

func (s *questionPaperService) Create(ctx context.Context, req *dto.CreatePaperRequest, callerID string) (*dto.PaperResponse, error) {
	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}
	subject := normalizeCode(req.SubjectCode)
	exam := normalizeCode(req.ExamLabel)

	if _, err := s.repo.Paper.GetBySubjectExam(ctx, subject, exam); err == nil {
		return nil, ErrPaperExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("load question paper failed", zap.String("subject_code", subject), zap.String("exam_label", exam), zap.Error(err))
		return nil, err
	}

	paper := &model.QuestionPaper{
		SubjectCode: subject,
		ExamLabel:   exam,
		Questions:   questions,
		Status:      model.PaperStatusDraft,
	}
	paper.Version = 1
	paper.CreatedBy = &callerID
	paper.UpdatedBy = &callerID

	if err := s.repo.Paper.Create(ctx, paper); err != nil {
		s.logger.Error("create question paper failed", zap.String("subject_code", subject), zap.String("exam_label", exam), zap.Error(err))
		return nil, err
	}
	return toPaperResponse(paper), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *questionPaperService) GetByID(ctx context.Context, id string) (*dto.PaperResponse, error) {
	paper, err := s.getPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaperResponse(paper), nil
}

func (s *questionPaperService) getPaper(ctx context.Context, id string) (*model.QuestionPaper, error) {
	paper, err := s.repo.Paper.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaperNotFound
		}
		s.logger.Error("load question paper failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return paper, nil
}

// ────────────────────── GetBySubjectExam ──────────────────────

func (s *questionPaperService) GetBySubjectExam(ctx context.Context, subjectCode, examLabel string) (*dto.PaperResponse, error) {
	subject, exam := normalizeCode(subjectCode), normalizeCode(examLabel)
	paper, err := s.repo.Paper.GetBySubjectExam(ctx, subject, exam)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaperNotFound
		}
		s.logger.Error("load question paper failed", zap.String("subject_code", subject), zap.String("exam_label", exam), zap.Error(err))
		return nil, err
	}
	return toPaperResponse(paper), nil
}

// ────────────────────── ListBySubject ──────────────────────

func (s *questionPaperService) ListBySubject(ctx context.Context, subjectCode string, req *dto.PaperListRequest) ([]dto.PaperResponse, error) {
	subject := normalizeCode(subjectCode)
	papers, err := s.repo.Paper.ListBySubject(ctx, subject, req.Status)
	if err != nil {
		s.logger.Error("list question papers failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}

	result := make([]dto.PaperResponse, 0, len(papers))
	for i := range papers {
		result = append(result, *toPaperResponse(&papers[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *questionPaperService) Update(ctx context.Context, id string, req *dto.UpdatePaperRequest, callerID string) (*dto.PaperResponse, error) {
	paper, err := s.getPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	if paper.Status != model.PaperStatusDraft {
		return nil, ErrPaperTransitionInvalid
	}
	if req.Version != paper.Version {
		return nil, ErrPaperVersionConflict
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}
	paper.Questions = questions
	paper.UpdatedBy = &callerID

	if err := s.save(ctx, paper); err != nil {
		return nil, err
	}
	return toPaperResponse(paper), nil
}

// ────────────────────── Submit ──────────────────────

func (s *questionPaperService) Submit(ctx context.Context, id string, callerID string) (*dto.PaperResponse, error) {
	paper, err := s.getPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	if paper.Status != model.PaperStatusDraft {
		return nil, ErrPaperTransitionInvalid
	}

	now := time.Now()
	paper.Status = model.PaperStatusSubmitted
	paper.SubmittedBy = &callerID
	paper.SubmittedAt = &now
	paper.UpdatedBy = &callerID

	if err := s.save(ctx, paper); err != nil {
		return nil, err
	}
	return toPaperResponse(paper), nil
}

// ────────────────────── Approve ──────────────────────

func (s *questionPaperService) Approve(ctx context.Context, id string, callerID string) (*dto.PaperResponse, error) {
	paper, err := s.getPaper(ctx, id)
	if err != nil {
		return nil, err
	}
	if paper.Status != model.PaperStatusSubmitted {
		return nil, ErrPaperTransitionInvalid
	}

	now := time.Now()
	paper.Status = model.PaperStatusApproved
	paper.ApprovedBy = &callerID
	paper.ApprovedAt = &now
	paper.UpdatedBy = &callerID

	if err := s.save(ctx, paper); err != nil {
		return nil, err
	}
	return toPaperResponse(paper), nil
}

func (s *questionPaperService) save(ctx context.Context, paper *model.QuestionPaper) error {
	if err := s.repo.Paper.Update(ctx, paper); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return ErrPaperVersionConflict
		}
		s.logger.Error("update question paper failed", zap.String("id", paper.PaperID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *questionPaperService) Delete(ctx context.Context, id string, callerID string) error {
	paper, err := s.getPaper(ctx, id)
	if err != nil {
		return err
	}
	if paper.Status != model.PaperStatusDraft {
		return ErrPaperTransitionInvalid
	}

	if err := s.repo.Paper.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("delete question paper failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toPaperResponse(p *model.QuestionPaper) *dto.PaperResponse {
	questions := make([]dto.QuestionInput, 0, len(p.Questions))
	for _, q := range p.Questions {
		questions = append(questions, dto.QuestionInput{
			ID:    q.ID,
			Text:  q.Text,
			Marks: q.Marks,
			CO:    q.CO,
			Level: q.Level,
		})
	}
	return &dto.PaperResponse{
		ID:          p.PaperID,
		SubjectCode: p.SubjectCode,
		ExamLabel:   p.ExamLabel,
		Questions:   questions,
		MaxMarks:    p.MaxMarks(),
		Status:      p.Status,
		SubmittedBy: derefString(p.SubmittedBy),
		SubmittedAt: p.SubmittedAt,
		ApprovedBy:  derefString(p.ApprovedBy),
		ApprovedAt:  p.ApprovedAt,
		Version:     p.Version,
	}
}
