package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/attainment"
	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
)

// AttainmentService CO/PO attainment of a subject
type AttainmentService interface {
	Calculate(ctx context.Context, subjectCode string) (*dto.AttainmentResponse, error)
}

type attainmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttainmentService creates an AttainmentService
func NewAttainmentService(repo *repository.Repository, logger *zap.Logger) AttainmentService {
	return &attainmentService{repo: repo, logger: logger}
}

// ────────────────────── Calculate ──────────────────────

func (s *attainmentService) Calculate(ctx context.Context, subjectCode string) (*dto.AttainmentResponse, error) {
	subject := normalizeCode(subjectCode)

	in, err := s.snapshot(ctx, subject)
	if err != nil {
		return nil, err
	}

	res, err := attainment.Calculate(*in)
	if err != nil {
		return nil, err
	}

	if res.SkippedEntries > 0 {
		s.logger.Warn("attainment skipped unmapped scores",
			zap.String("subject_code", subject),
			zap.Int("skipped", res.SkippedEntries),
		)
	}
	if res.CappedEntries > 0 {
		s.logger.Warn("attainment capped out-of-range scores",
			zap.String("subject_code", subject),
			zap.Int("capped", res.CappedEntries),
		)
	}

	return &dto.AttainmentResponse{
		SubjectCode:        subject,
		COLevels:           res.COLevels,
		COPassFraction:     res.COPassFraction,
		POScores:           res.POScores,
		StudentsConsidered: res.StudentsConsidered,
		ExamsConsidered:    res.ExamsConsidered,
		ExamsDiscarded:     res.ExamsDiscarded,
		SkippedEntries:     res.SkippedEntries,
		CappedEntries:      res.CappedEntries,
	}, nil
}

// snapshot reads marks, papers and the matrix of one subject in a single read transaction
func (s *attainmentService) snapshot(ctx context.Context, subject string) (*attainment.Input, error) {
	tx, err := s.repo.BeginSnapshot(ctx)
	if err != nil {
		s.logger.Error("begin snapshot failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	r := s.repo.WithTx(tx)

	marks, err := r.Mark.ListBySubject(ctx, subject, "")
	if err != nil {
		s.logger.Error("load marks failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}

	papers, err := r.Paper.ListBySubject(ctx, subject, model.PaperStatusApproved)
	if err != nil {
		s.logger.Error("load question papers failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}

	var matrix model.CoPoMatrix
	mapping, err := r.CoPo.Get(ctx, subject)
	switch {
	case err == nil:
		matrix = mapping.Matrix.Data()
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("load co-po mapping failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}

	return &attainment.Input{Marks: marks, Papers: papers, Matrix: matrix}, nil
}
