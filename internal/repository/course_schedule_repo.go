package repository

import (
	"context"

	"gorm.io/gorm"

	"acadtrack/backend/internal/model"
)

// CourseScheduleRepository faculty timetable data access
type CourseScheduleRepository interface {
	ListByUserAndTerm(ctx context.Context, userID, termID string) ([]model.CourseSchedule, error)
	ListByTerm(ctx context.Context, termID string) ([]model.CourseSchedule, error)
	// ReplaceByUserAndTerm swaps a faculty member's rows for the term in one transaction
	ReplaceByUserAndTerm(ctx context.Context, userID, termID string, rows []model.CourseSchedule) error
}

type courseScheduleRepo struct {
	db *gorm.DB
}

// NewCourseScheduleRepo creates a CourseScheduleRepository
func NewCourseScheduleRepo(db *gorm.DB) CourseScheduleRepository {
	return &courseScheduleRepo{db: db}
}

func (r *courseScheduleRepo) ListByUserAndTerm(ctx context.Context, userID, termID string) ([]model.CourseSchedule, error) {
	var rows []model.CourseSchedule
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND term_id = ?", userID, termID).
		Order("day_of_week ASC, start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *courseScheduleRepo) ListByTerm(ctx context.Context, termID string) ([]model.CourseSchedule, error) {
	var rows []model.CourseSchedule
	err := r.db.WithContext(ctx).
		Where("term_id = ?", termID).
		Order("user_id ASC, day_of_week ASC, start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *courseScheduleRepo) ReplaceByUserAndTerm(ctx context.Context, userID, termID string, rows []model.CourseSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND term_id = ?", userID, termID).
			Delete(&model.CourseSchedule{}).Error; err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
