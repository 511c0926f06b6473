package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── academic term module errors ──

var (
	ErrTermNotFound    = errors.New("academic term not found")
	ErrTermDateInvalid = errors.New("term end date must be after its start date")
	ErrTermActive      = errors.New("the active term cannot be deleted or archived")
)

// AcademicTermService academic term administration
type AcademicTermService interface {
	Create(ctx context.Context, req *dto.CreateTermRequest, callerID string) (*dto.TermResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TermResponse, error)
	GetCurrent(ctx context.Context) (*dto.TermResponse, error)
	List(ctx context.Context) ([]dto.TermResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTermRequest, callerID string) (*dto.TermResponse, error)
	// Activate makes id the only active term
	Activate(ctx context.Context, id string, callerID string) error
	Delete(ctx context.Context, id string, callerID string) error
}

type academicTermService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAcademicTermService creates an AcademicTermService
func NewAcademicTermService(repo *repository.Repository, logger *zap.Logger) AcademicTermService {
	return &academicTermService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *academicTermService) Create(ctx context.Context, req *dto.CreateTermRequest, callerID string) (*dto.TermResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, ErrTermDateInvalid
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, ErrTermDateInvalid
	}
	if !end.After(start) {
		return nil, ErrTermDateInvalid
	}

	term := &model.AcademicTerm{
		Name:         strings.TrimSpace(req.Name),
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		StartDate:    start,
		EndDate:      end,
		IsActive:     false,
		Status:       model.TermStatusActive,
	}
	term.CreatedBy = &callerID
	term.UpdatedBy = &callerID

	if err := s.repo.Term.Create(ctx, term); err != nil {
		s.logger.Error("create academic term failed", zap.Error(err))
		return nil, err
	}

	return toTermResponse(term), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *academicTermService) GetByID(ctx context.Context, id string) (*dto.TermResponse, error) {
	term, err := s.getTerm(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTermResponse(term), nil
}

func (s *academicTermService) getTerm(ctx context.Context, id string) (*model.AcademicTerm, error) {
	term, err := s.repo.Term.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("load academic term failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return term, nil
}

// ────────────────────── GetCurrent ──────────────────────

func (s *academicTermService) GetCurrent(ctx context.Context) (*dto.TermResponse, error) {
	term, err := s.repo.Term.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveTerm
		}
		s.logger.Error("load current term failed", zap.Error(err))
		return nil, err
	}
	return toTermResponse(term), nil
}

// ────────────────────── List ──────────────────────

func (s *academicTermService) List(ctx context.Context) ([]dto.TermResponse, error) {
	terms, err := s.repo.Term.List(ctx)
	if err != nil {
		s.logger.Error("list academic terms failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TermResponse, 0, len(terms))
	for i := range terms {
		result = append(result, *toTermResponse(&terms[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *academicTermService) Update(ctx context.Context, id string, req *dto.UpdateTermRequest, callerID string) (*dto.TermResponse, error) {
	term, err := s.getTerm(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		term.Name = strings.TrimSpace(*req.Name)
	}
	if req.AcademicYear != nil {
		term.AcademicYear = strings.TrimSpace(*req.AcademicYear)
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, ErrTermDateInvalid
		}
		term.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, ErrTermDateInvalid
		}
		term.EndDate = end
	}
	if !term.EndDate.After(term.StartDate) {
		return nil, ErrTermDateInvalid
	}
	if req.Status != nil {
		if *req.Status == model.TermStatusArchived && term.IsActive {
			return nil, ErrTermActive
		}
		term.Status = *req.Status
	}

	term.UpdatedBy = &callerID

	if err := s.repo.Term.Update(ctx, term); err != nil {
		s.logger.Error("update academic term failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTermResponse(term), nil
}

// ────────────────────── Activate ──────────────────────

func (s *academicTermService) Activate(ctx context.Context, id string, callerID string) error {
	term, err := s.getTerm(ctx, id)
	if err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Term.ClearActive(ctx); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("clear active term failed", zap.Error(err))
		return err
	}

	term.IsActive = true
	term.Status = model.TermStatusActive
	term.UpdatedBy = &callerID

	if err := txRepo.Term.Update(ctx, term); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("activate academic term failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit transaction failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *academicTermService) Delete(ctx context.Context, id string, callerID string) error {
	term, err := s.getTerm(ctx, id)
	if err != nil {
		return err
	}
	if term.IsActive {
		return ErrTermActive
	}

	if err := s.repo.Term.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("delete academic term failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func toTermResponse(t *model.AcademicTerm) *dto.TermResponse {
	return &dto.TermResponse{
		ID:           t.TermID,
		Name:         t.Name,
		AcademicYear: t.AcademicYear,
		StartDate:    t.StartDate.Format(dateLayout),
		EndDate:      t.EndDate.Format(dateLayout),
		IsActive:     t.IsActive,
		Status:       t.Status,
		CreatedAt:    formatTimestamp(t.CreatedAt),
		UpdatedAt:    formatTimestamp(t.UpdatedAt),
	}
}
