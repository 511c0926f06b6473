package repository

import (
	"context"

	"gorm.io/gorm"

	"acadtrack/backend/internal/model"
	pkgerrors "acadtrack/backend/pkg/errors"
)

// QuestionPaperRepository question paper data access
type QuestionPaperRepository interface {
	Create(ctx context.Context, p *model.QuestionPaper) error
	GetByID(ctx context.Context, id string) (*model.QuestionPaper, error)
	GetBySubjectExam(ctx context.Context, subjectCode, examLabel string) (*model.QuestionPaper, error)
	// ListBySubject all papers of a subject; status "" means any status
	ListBySubject(ctx context.Context, subjectCode, status string) ([]model.QuestionPaper, error)
	// Update writes questions and workflow fields guarded by version
	Update(ctx context.Context, p *model.QuestionPaper) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type questionPaperRepo struct {
	db *gorm.DB
}

// NewQuestionPaperRepo creates a QuestionPaperRepository
func NewQuestionPaperRepo(db *gorm.DB) QuestionPaperRepository {
	return &questionPaperRepo{db: db}
}

func (r *questionPaperRepo) Create(ctx context.Context, p *model.QuestionPaper) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *questionPaperRepo) GetByID(ctx context.Context, id string) (*model.QuestionPaper, error) {
	var p model.QuestionPaper
	err := r.db.WithContext(ctx).
		Where("paper_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *questionPaperRepo) GetBySubjectExam(ctx context.Context, subjectCode, examLabel string) (*model.QuestionPaper, error) {
	var p model.QuestionPaper
	err := r.db.WithContext(ctx).
		Where("subject_code = ? AND exam_label = ?", subjectCode, examLabel).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *questionPaperRepo) ListBySubject(ctx context.Context, subjectCode, status string) ([]model.QuestionPaper, error) {
	var papers []model.QuestionPaper
	db := r.db.WithContext(ctx).Where("subject_code = ?", subjectCode)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("exam_label ASC").Find(&papers).Error
	return papers, err
}

func (r *questionPaperRepo) Update(ctx context.Context, p *model.QuestionPaper) error {
	oldVersion := p.Version
	result := r.db.WithContext(ctx).
		Model(p).
		Where("paper_id = ? AND version = ?", p.PaperID, oldVersion).
		Updates(map[string]interface{}{
			"questions":    p.Questions,
			"status":       p.Status,
			"submitted_by": p.SubmittedBy,
			"submitted_at": p.SubmittedAt,
			"approved_by":  p.ApprovedBy,
			"approved_at":  p.ApprovedAt,
			"updated_by":   p.UpdatedBy,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	p.Version = oldVersion + 1
	return nil
}

func (r *questionPaperRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.QuestionPaper{}).
		Where("paper_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
