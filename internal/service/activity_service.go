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

// ── activity points module errors ──

var (
	ErrActivityNotFound   = errors.New("activity claim not found")
	ErrActivityNotPending = errors.New("only pending claims can be reviewed")
)

// ActivityService extracurricular activity point claims
type ActivityService interface {
	Create(ctx context.Context, caller Caller, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error)
	Summary(ctx context.Context, caller Caller, studentID string) (*dto.ActivitySummaryResponse, error)
	List(ctx context.Context, req *dto.ReviewListRequest) ([]dto.ActivityResponse, int64, error)
	Review(ctx context.Context, id string, req *dto.ReviewRequest, callerID string) (*dto.ActivityResponse, error)
}

type activityService struct {
	repo   *repository.Repository
	policy PolicyService
	logger *zap.Logger
}

// NewActivityService creates an ActivityService
func NewActivityService(repo *repository.Repository, policy PolicyService, logger *zap.Logger) ActivityService {
	return &activityService{repo: repo, policy: policy, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *activityService) Create(ctx context.Context, caller Caller, req *dto.CreateActivityRequest) (*dto.ActivityResponse, error) {
	sid, err := studentScope(caller, req.StudentID)
	if err != nil {
		return nil, err
	}
	if _, err := resolveStudent(ctx, s.repo, s.logger, sid); err != nil {
		return nil, err
	}

	ap := &model.ActivityPoint{
		StudentID:      sid,
		Title:          strings.TrimSpace(req.Title),
		Category:       strings.TrimSpace(req.Category),
		Points:         req.Points,
		CertificateURL: strings.TrimSpace(req.CertificateURL),
		Status:         model.ReviewPending,
	}
	ap.CreatedBy = &caller.UserID
	ap.UpdatedBy = &caller.UserID

	if err := s.repo.Activity.Create(ctx, ap); err != nil {
		s.logger.Error("create activity claim failed", zap.String("student_id", sid), zap.Error(err))
		return nil, err
	}
	return toActivityResponse(ap), nil
}

// ────────────────────── Summary ──────────────────────

func (s *activityService) Summary(ctx context.Context, caller Caller, studentID string) (*dto.ActivitySummaryResponse, error) {
	sid, err := studentScope(caller, studentID)
	if err != nil {
		return nil, err
	}

	policy, err := s.policy.Current(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Activity.ListByStudent(ctx, sid)
	if err != nil {
		s.logger.Error("list activity claims failed", zap.String("student_id", sid), zap.Error(err))
		return nil, err
	}
	approved, err := s.repo.Activity.SumApproved(ctx, sid)
	if err != nil {
		s.logger.Error("sum activity points failed", zap.String("student_id", sid), zap.Error(err))
		return nil, err
	}

	remaining := policy.ActivityPointsRequired - approved
	if remaining < 0 {
		remaining = 0
	}

	out := &dto.ActivitySummaryResponse{
		StudentID: sid,
		Approved:  approved,
		Required:  policy.ActivityPointsRequired,
		Remaining: remaining,
		Items:     make([]dto.ActivityResponse, 0, len(items)),
	}
	for i := range items {
		out.Items = append(out.Items, *toActivityResponse(&items[i]))
	}
	return out, nil
}

// ────────────────────── List ──────────────────────

func (s *activityService) List(ctx context.Context, req *dto.ReviewListRequest) ([]dto.ActivityResponse, int64, error) {
	rows, total, err := s.repo.Activity.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list activity claims failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ActivityResponse, 0, len(rows))
	for i := range rows {
		result = append(result, *toActivityResponse(&rows[i]))
	}
	return result, total, nil
}

// ────────────────────── Review ──────────────────────

func (s *activityService) Review(ctx context.Context, id string, req *dto.ReviewRequest, callerID string) (*dto.ActivityResponse, error) {
	ap, err := s.repo.Activity.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("load activity claim failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if ap.Status != model.ReviewPending {
		return nil, ErrActivityNotPending
	}

	now := time.Now()
	ap.Status = model.ReviewRejected
	if req.Approve {
		ap.Status = model.ReviewApproved
	}
	ap.ReviewedBy = &callerID
	ap.ReviewedAt = &now
	ap.UpdatedBy = &callerID

	if err := s.repo.Activity.Update(ctx, ap); err != nil {
		s.logger.Error("review activity claim failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toActivityResponse(ap), nil
}

func toActivityResponse(ap *model.ActivityPoint) *dto.ActivityResponse {
	return &dto.ActivityResponse{
		ID:             ap.ActivityID,
		StudentID:      ap.StudentID,
		Title:          ap.Title,
		Category:       ap.Category,
		Points:         ap.Points,
		CertificateURL: ap.CertificateURL,
		Status:         ap.Status,
		CreatedAt:      formatTimestamp(ap.CreatedAt),
	}
}
