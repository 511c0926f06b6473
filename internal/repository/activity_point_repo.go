package repository

import (
	"context"

	"gorm.io/gorm"

	"acadtrack/backend/internal/model"
)

// ActivityPointRepository activity point data access
type ActivityPointRepository interface {
	Create(ctx context.Context, ap *model.ActivityPoint) error
	GetByID(ctx context.Context, id string) (*model.ActivityPoint, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.ActivityPoint, error)
	// List every claim; status "" means any status
	List(ctx context.Context, status string, offset, limit int) ([]model.ActivityPoint, int64, error)
	Update(ctx context.Context, ap *model.ActivityPoint) error
	// SumApproved total approved points of a student
	SumApproved(ctx context.Context, studentID string) (int, error)
}

type activityPointRepo struct {
	db *gorm.DB
}

// NewActivityPointRepo creates an ActivityPointRepository
func NewActivityPointRepo(db *gorm.DB) ActivityPointRepository {
	return &activityPointRepo{db: db}
}

func (r *activityPointRepo) Create(ctx context.Context, ap *model.ActivityPoint) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *activityPointRepo) GetByID(ctx context.Context, id string) (*model.ActivityPoint, error) {
	var ap model.ActivityPoint
	err := r.db.WithContext(ctx).
		Where("activity_id = ?", id).
		First(&ap).Error
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *activityPointRepo) ListByStudent(ctx context.Context, studentID string) ([]model.ActivityPoint, error) {
	var aps []model.ActivityPoint
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&aps).Error
	return aps, err
}

func (r *activityPointRepo) List(ctx context.Context, status string, offset, limit int) ([]model.ActivityPoint, int64, error) {
	var aps []model.ActivityPoint
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ActivityPoint{})
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit = pageBounds(offset, limit)
	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&aps).Error; err != nil {
		return nil, 0, err
	}
	return aps, total, nil
}

func (r *activityPointRepo) Update(ctx context.Context, ap *model.ActivityPoint) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *activityPointRepo) SumApproved(ctx context.Context, studentID string) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).
		Model(&model.ActivityPoint{}).
		Select("COALESCE(SUM(points), 0)").
		Where("student_id = ? AND status = ?", studentID, model.ReviewApproved).
		Scan(&sum).Error
	return sum, err
}
