package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/config"
	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── academic policy module errors ──

var (
	ErrPolicyThresholdsInverted = errors.New("condonation percent must not exceed safe percent")
)

// Defaults used until the policy row is seeded
const (
	DefaultSafePercent            = 85.0
	DefaultCondonationPercent     = 75.0
	DefaultActivityPointsRequired = 100
)

// PolicyService attendance and activity thresholds
type PolicyService interface {
	Get(ctx context.Context) (*dto.PolicyResponse, error)
	Update(ctx context.Context, req *dto.UpdatePolicyRequest, callerID string) (*dto.PolicyResponse, error)
	// EnsureDefault seeds the policy row from configuration if it does not exist yet
	EnsureDefault(ctx context.Context, cfg *config.AttendanceConfig) error
	// Current thresholds in force; built-in defaults when nothing is stored
	Current(ctx context.Context) (*model.AcademicPolicy, error)
}

type policyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPolicyService creates a PolicyService
func NewPolicyService(repo *repository.Repository, logger *zap.Logger) PolicyService {
	return &policyService{repo: repo, logger: logger}
}

func defaultPolicy() *model.AcademicPolicy {
	return &model.AcademicPolicy{
		Singleton:              true,
		SafePercent:            DefaultSafePercent,
		CondonationPercent:     DefaultCondonationPercent,
		ActivityPointsRequired: DefaultActivityPointsRequired,
	}
}

// ────────────────────── Current ──────────────────────

func (s *policyService) Current(ctx context.Context) (*model.AcademicPolicy, error) {
	p, err := s.repo.Policy.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return defaultPolicy(), nil
		}
		s.logger.Error("load academic policy failed", zap.Error(err))
		return nil, err
	}
	return p, nil
}

// ────────────────────── Get ──────────────────────

func (s *policyService) Get(ctx context.Context) (*dto.PolicyResponse, error) {
	p, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return toPolicyResponse(p), nil
}

// ────────────────────── Update ──────────────────────

func (s *policyService) Update(ctx context.Context, req *dto.UpdatePolicyRequest, callerID string) (*dto.PolicyResponse, error) {
	p, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	if req.SafePercent != nil {
		p.SafePercent = *req.SafePercent
	}
	if req.CondonationPercent != nil {
		p.CondonationPercent = *req.CondonationPercent
	}
	if req.ActivityPointsRequired != nil {
		p.ActivityPointsRequired = *req.ActivityPointsRequired
	}
	if p.CondonationPercent > p.SafePercent {
		return nil, ErrPolicyThresholdsInverted
	}

	p.UpdatedBy = &callerID

	if err := s.repo.Policy.Update(ctx, p); err != nil {
		s.logger.Error("update academic policy failed", zap.Error(err))
		return nil, err
	}
	return toPolicyResponse(p), nil
}

// ────────────────────── EnsureDefault ──────────────────────

func (s *policyService) EnsureDefault(ctx context.Context, cfg *config.AttendanceConfig) error {
	p := defaultPolicy()
	if cfg != nil {
		if cfg.SafePercent > 0 {
			p.SafePercent = cfg.SafePercent
		}
		if cfg.CondonationPercent > 0 {
			p.CondonationPercent = cfg.CondonationPercent
		}
		if cfg.ActivityPointsMinimum > 0 {
			p.ActivityPointsRequired = cfg.ActivityPointsMinimum
		}
	}

	if err := s.repo.Policy.EnsureDefault(ctx, p); err != nil {
		s.logger.Error("seed academic policy failed", zap.Error(err))
		return err
	}
	return nil
}

func toPolicyResponse(p *model.AcademicPolicy) *dto.PolicyResponse {
	return &dto.PolicyResponse{
		SafePercent:            p.SafePercent,
		CondonationPercent:     p.CondonationPercent,
		ActivityPointsRequired: p.ActivityPointsRequired,
		UpdatedAt:              formatTimestamp(p.UpdatedAt),
	}
}
