package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── condonation module errors ──

var (
	ErrCondonationNotFound   = errors.New("condonation request not found")
	ErrCondonationNotNeeded  = errors.New("attendance is not below the safe percentage")
	ErrCondonationPending    = errors.New("a pending condonation request already exists for this subject")
	ErrCondonationNotPending = errors.New("only pending requests can be reviewed")
)

// CondonationService attendance shortage condonation requests
type CondonationService interface {
	Create(ctx context.Context, caller Caller, req *dto.CreateCondonationRequest) (*dto.CondonationResponse, error)
	ListMine(ctx context.Context, caller Caller, studentID string) ([]dto.CondonationResponse, error)
	List(ctx context.Context, req *dto.ReviewListRequest) ([]dto.CondonationResponse, int64, error)
	Review(ctx context.Context, id string, req *dto.ReviewRequest, callerID string) (*dto.CondonationResponse, error)
}

type condonationService struct {
	repo       *repository.Repository
	attendance AttendanceService
	logger     *zap.Logger
}

// NewCondonationService creates a CondonationService
func NewCondonationService(repo *repository.Repository, attendance AttendanceService, logger *zap.Logger) CondonationService {
	return &condonationService{repo: repo, attendance: attendance, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *condonationService) Create(ctx context.Context, caller Caller, req *dto.CreateCondonationRequest) (*dto.CondonationResponse, error) {
	sid, err := studentScope(caller, req.StudentID)
	if err != nil {
		return nil, err
	}
	if _, err := resolveStudent(ctx, s.repo, s.logger, sid); err != nil {
		return nil, err
	}
	subject := normalizeCode(req.SubjectCode)

	status, err := s.attendance.SubjectStatus(ctx, sid, subject)
	if err != nil {
		return nil, err
	}
	if status.Status == ComplianceSafe || status.Status == ComplianceNoClasses {
		return nil, ErrCondonationNotNeeded
	}

	pending, err := s.repo.Condonation.HasPending(ctx, sid, subject)
	if err != nil {
		s.logger.Error("check pending condonation failed", zap.String("student_id", sid), zap.Error(err))
		return nil, err
	}
	if pending {
		return nil, ErrCondonationPending
	}

	cr := &model.CondonationRequest{
		StudentID:      sid,
		SubjectCode:    subject,
		DocumentURL:    strings.TrimSpace(req.DocumentURL),
		CurrentPercent: status.Percent,
		Reason:         strings.TrimSpace(req.Reason),
		Status:         model.ReviewPending,
	}
	cr.CreatedBy = &caller.UserID
	cr.UpdatedBy = &caller.UserID

	if err := s.repo.Condonation.Create(ctx, cr); err != nil {
		s.logger.Error("create condonation request failed", zap.String("student_id", sid), zap.Error(err))
		return nil, err
	}
	return toCondonationResponse(cr), nil
}

// ────────────────────── ListMine ──────────────────────

func (s *condonationService) ListMine(ctx context.Context, caller Caller, studentID string) ([]dto.CondonationResponse, error) {
	sid, err := studentScope(caller, studentID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.Condonation.ListByStudent(ctx, sid)
	if err != nil {
		s.logger.Error("list condonation requests failed", zap.String("student_id", sid), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CondonationResponse, 0, len(rows))
	for i := range rows {
		result = append(result, *toCondonationResponse(&rows[i]))
	}
	return result, nil
}

// ────────────────────── List ──────────────────────

func (s *condonationService) List(ctx context.Context, req *dto.ReviewListRequest) ([]dto.CondonationResponse, int64, error) {
	rows, total, err := s.repo.Condonation.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list condonation requests failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CondonationResponse, 0, len(rows))
	for i := range rows {
		result = append(result, *toCondonationResponse(&rows[i]))
	}
	return result, total, nil
}

// ────────────────────── Review ──────────────────────

func (s *condonationService) Review(ctx context.Context, id string, req *dto.ReviewRequest, callerID string) (*dto.CondonationResponse, error) {
	cr, err := s.repo.Condonation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCondonationNotFound
		}
		s.logger.Error("load condonation request failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if cr.Status != model.ReviewPending {
		return nil, ErrCondonationNotPending
	}

	now := time.Now()
	cr.Status = model.ReviewRejected
	if req.Approve {
		cr.Status = model.ReviewApproved
	}
	cr.ReviewedBy = &callerID
	cr.ReviewedAt = &now
	cr.ReviewNote = strings.TrimSpace(req.Note)
	cr.UpdatedBy = &callerID

	if err := s.repo.Condonation.Update(ctx, cr); err != nil {
		s.logger.Error("review condonation request failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCondonationResponse(cr), nil
}

func toCondonationResponse(cr *model.CondonationRequest) *dto.CondonationResponse {
	return &dto.CondonationResponse{
		ID:             cr.RequestID,
		StudentID:      cr.StudentID,
		SubjectCode:    cr.SubjectCode,
		DocumentURL:    cr.DocumentURL,
		CurrentPercent: cr.CurrentPercent,
		Reason:         cr.Reason,
		Status:         cr.Status,
		ReviewNote:     cr.ReviewNote,
		CreatedAt:      formatTimestamp(cr.CreatedAt),
	}
}
