package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acadtrack/backend/internal/model"
)

// MarkRepository IA mark data access
type MarkRepository interface {
	GetByID(ctx context.Context, recordID string) (*model.MarkRecord, error)
	// Upsert writes records by record id; a resubmission replaces scores and total
	Upsert(ctx context.Context, records []model.MarkRecord) error
	// ListBySubject marks of a subject; examLabel "" means every exam
	ListBySubject(ctx context.Context, subjectCode, examLabel string) ([]model.MarkRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.MarkRecord, error)
	Delete(ctx context.Context, recordID string) error
}

type markRepo struct {
	db *gorm.DB
}

// NewMarkRepo creates a MarkRepository
func NewMarkRepo(db *gorm.DB) MarkRepository {
	return &markRepo{db: db}
}

func (r *markRepo) GetByID(ctx context.Context, recordID string) (*model.MarkRecord, error) {
	var rec model.MarkRecord
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *markRepo) Upsert(ctx context.Context, records []model.MarkRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"scores", "total", "entered_by", "updated_at", "updated_by"}),
		}).
		CreateInBatches(&records, 200).Error
}

func (r *markRepo) ListBySubject(ctx context.Context, subjectCode, examLabel string) ([]model.MarkRecord, error) {
	var records []model.MarkRecord
	db := r.db.WithContext(ctx).Where("subject_code = ?", subjectCode)
	if examLabel != "" {
		db = db.Where("exam_label = ?", examLabel)
	}
	err := db.Order("exam_label ASC, student_id ASC").Find(&records).Error
	return records, err
}

func (r *markRepo) ListByStudent(ctx context.Context, studentID string) ([]model.MarkRecord, error) {
	var records []model.MarkRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("subject_code ASC, exam_label ASC").
		Find(&records).Error
	return records, err
}

func (r *markRepo) Delete(ctx context.Context, recordID string) error {
	result := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Delete(&model.MarkRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
