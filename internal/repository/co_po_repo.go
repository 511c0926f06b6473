package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acadtrack/backend/internal/model"
)

// CoPoRepository CO-PO matrix data access
type CoPoRepository interface {
	Get(ctx context.Context, subjectCode string) (*model.CoPoMapping, error)
	Upsert(ctx context.Context, m *model.CoPoMapping) error
	Delete(ctx context.Context, subjectCode string) error
}

type coPoRepo struct {
	db *gorm.DB
}

// NewCoPoRepo creates a CoPoRepository
func NewCoPoRepo(db *gorm.DB) CoPoRepository {
	return &coPoRepo{db: db}
}

func (r *coPoRepo) Get(ctx context.Context, subjectCode string) (*model.CoPoMapping, error) {
	var m model.CoPoMapping
	err := r.db.WithContext(ctx).
		Where("subject_code = ?", subjectCode).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *coPoRepo) Upsert(ctx context.Context, m *model.CoPoMapping) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"matrix", "updated_at", "updated_by"}),
		}).
		Create(m).Error
}

func (r *coPoRepo) Delete(ctx context.Context, subjectCode string) error {
	result := r.db.WithContext(ctx).
		Where("subject_code = ?", subjectCode).
		Delete(&model.CoPoMapping{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
