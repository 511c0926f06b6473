package repository

import (
	"context"

	"gorm.io/gorm"

	"acadtrack/backend/internal/model"
)

// CondonationRepository condonation request data access
type CondonationRepository interface {
	Create(ctx context.Context, req *model.CondonationRequest) error
	GetByID(ctx context.Context, id string) (*model.CondonationRequest, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.CondonationRequest, error)
	// List every request; status "" means any status
	List(ctx context.Context, status string, offset, limit int) ([]model.CondonationRequest, int64, error)
	HasPending(ctx context.Context, studentID, subjectCode string) (bool, error)
	Update(ctx context.Context, req *model.CondonationRequest) error
}

type condonationRepo struct {
	db *gorm.DB
}

// NewCondonationRepo creates a CondonationRepository
func NewCondonationRepo(db *gorm.DB) CondonationRepository {
	return &condonationRepo{db: db}
}

func (r *condonationRepo) Create(ctx context.Context, req *model.CondonationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *condonationRepo) GetByID(ctx context.Context, id string) (*model.CondonationRequest, error) {
	var req model.CondonationRequest
	err := r.db.WithContext(ctx).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *condonationRepo) ListByStudent(ctx context.Context, studentID string) ([]model.CondonationRequest, error) {
	var reqs []model.CondonationRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *condonationRepo) List(ctx context.Context, status string, offset, limit int) ([]model.CondonationRequest, int64, error) {
	var reqs []model.CondonationRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.CondonationRequest{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit = pageBounds(offset, limit)
	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (r *condonationRepo) HasPending(ctx context.Context, studentID, subjectCode string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CondonationRequest{}).
		Where("student_id = ? AND subject_code = ? AND status = ?", studentID, subjectCode, model.ReviewPending).
		Count(&n).Error
	return n > 0, err
}

func (r *condonationRepo) Update(ctx context.Context, req *model.CondonationRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
