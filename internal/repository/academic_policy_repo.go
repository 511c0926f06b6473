package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acadtrack/backend/internal/model"
)

// AcademicPolicyRepository policy singleton data access
type AcademicPolicyRepository interface {
	Get(ctx context.Context) (*model.AcademicPolicy, error)
	Update(ctx context.Context, p *model.AcademicPolicy) error
	// EnsureDefault inserts p when no policy row exists yet
	EnsureDefault(ctx context.Context, p *model.AcademicPolicy) error
}

type academicPolicyRepo struct {
	db *gorm.DB
}

// NewAcademicPolicyRepo creates an AcademicPolicyRepository
func NewAcademicPolicyRepo(db *gorm.DB) AcademicPolicyRepository {
	return &academicPolicyRepo{db: db}
}

func (r *academicPolicyRepo) Get(ctx context.Context) (*model.AcademicPolicy, error) {
	var p model.AcademicPolicy
	err := r.db.WithContext(ctx).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *academicPolicyRepo) Update(ctx context.Context, p *model.AcademicPolicy) error {
	p.Singleton = true
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *academicPolicyRepo) EnsureDefault(ctx context.Context, p *model.AcademicPolicy) error {
	p.Singleton = true
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(p).Error
}
