package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"acadtrack/backend/internal/attainment"
	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// ── CO-PO mapping module errors ──

var (
	ErrCoPoNotFound = errors.New("co-po mapping not found")
	ErrCoPoInvalid  = errors.New("invalid co-po matrix")
)

// CoPoService course outcome to program outcome matrices
type CoPoService interface {
	Put(ctx context.Context, subjectCode string, req *dto.PutCoPoRequest, callerID string) (*dto.CoPoResponse, error)
	Get(ctx context.Context, subjectCode string) (*dto.CoPoResponse, error)
	Delete(ctx context.Context, subjectCode string) error
}

type coPoService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCoPoService creates a CoPoService
func NewCoPoService(repo *repository.Repository, logger *zap.Logger) CoPoService {
	return &coPoService{repo: repo, logger: logger}
}

// buildMatrix canonicalizes row and column labels; cell values are kept as given
func buildMatrix(in map[string]map[string]interface{}) (model.CoPoMatrix, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrCoPoInvalid)
	}
	out := make(model.CoPoMatrix, len(in))
	for rowKey, row := range in {
		co := normalizeCode(rowKey)
		if !attainment.IsCO(co) {
			return nil, fmt.Errorf("%w: unknown course outcome %q", ErrCoPoInvalid, rowKey)
		}
		cells := make(map[string]interface{}, len(row))
		for colKey, v := range row {
			po := normalizeCode(colKey)
			if !attainment.IsPO(po) {
				return nil, fmt.Errorf("%w: unknown program outcome %q", ErrCoPoInvalid, colKey)
			}
			cells[po] = v
		}
		out[co] = cells
	}
	return out, nil
}

// ────────────────────── Put ──────────────────────

func (s *coPoService) Put(ctx context.Context, subjectCode string, req *dto.PutCoPoRequest, callerID string) (*dto.CoPoResponse, error) {
	subject := normalizeCode(subjectCode)
	matrix, err := buildMatrix(req.Matrix)
	if err != nil {
		return nil, err
	}

	m := &model.CoPoMapping{
		SubjectCode: subject,
		Matrix:      datatypes.NewJSONType(matrix),
	}
	m.CreatedBy = &callerID
	m.UpdatedBy = &callerID

	if err := s.repo.CoPo.Upsert(ctx, m); err != nil {
		s.logger.Error("save co-po mapping failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}
	return toCoPoResponse(m), nil
}

// ────────────────────── Get ──────────────────────

func (s *coPoService) Get(ctx context.Context, subjectCode string) (*dto.CoPoResponse, error) {
	subject := normalizeCode(subjectCode)
	m, err := s.repo.CoPo.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoPoNotFound
		}
		s.logger.Error("load co-po mapping failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}
	return toCoPoResponse(m), nil
}

// ────────────────────── Delete ──────────────────────

func (s *coPoService) Delete(ctx context.Context, subjectCode string) error {
	subject := normalizeCode(subjectCode)
	if err := s.repo.CoPo.Delete(ctx, subject); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCoPoNotFound
		}
		s.logger.Error("delete co-po mapping failed", zap.String("subject_code", subject), zap.Error(err))
		return err
	}
	return nil
}

func toCoPoResponse(m *model.CoPoMapping) *dto.CoPoResponse {
	return &dto.CoPoResponse{
		SubjectCode: m.SubjectCode,
		Matrix:      m.Matrix.Data(),
		UpdatedAt:   formatTimestamp(m.UpdatedAt),
	}
}
