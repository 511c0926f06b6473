package repository

import (
	"context"

	"gorm.io/gorm"

	"acadtrack/backend/internal/model"
)

// AcademicTermRepository academic term data access
type AcademicTermRepository interface {
	Create(ctx context.Context, term *model.AcademicTerm) error
	GetByID(ctx context.Context, id string) (*model.AcademicTerm, error)
	GetCurrent(ctx context.Context) (*model.AcademicTerm, error)
	List(ctx context.Context) ([]model.AcademicTerm, error)
	Update(ctx context.Context, term *model.AcademicTerm) error
	Delete(ctx context.Context, id string, deletedBy string) error
	ClearActive(ctx context.Context) error
}

type academicTermRepo struct {
	db *gorm.DB
}

// NewAcademicTermRepo creates an AcademicTermRepository
func NewAcademicTermRepo(db *gorm.DB) AcademicTermRepository {
	return &academicTermRepo{db: db}
}

func (r *academicTermRepo) Create(ctx context.Context, term *model.AcademicTerm) error {
	return r.db.WithContext(ctx).Create(term).Error
}

func (r *academicTermRepo) GetByID(ctx context.Context, id string) (*model.AcademicTerm, error) {
	var term model.AcademicTerm
	err := r.db.WithContext(ctx).
		Where("term_id = ?", id).
		First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *academicTermRepo) GetCurrent(ctx context.Context) (*model.AcademicTerm, error) {
	var term model.AcademicTerm
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *academicTermRepo) List(ctx context.Context) ([]model.AcademicTerm, error) {
	var terms []model.AcademicTerm
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&terms).Error
	return terms, err
}

func (r *academicTermRepo) Update(ctx context.Context, term *model.AcademicTerm) error {
	return r.db.WithContext(ctx).Save(term).Error
}

func (r *academicTermRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicTerm{}).
		Where("term_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
			"is_active":  false,
		}).Error
}

// ClearActive deactivates every term
func (r *academicTermRepo) ClearActive(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.AcademicTerm{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error
}
