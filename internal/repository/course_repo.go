package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acadtrack/backend/internal/model"
)

// CourseFilter list filters; zero values are ignored
type CourseFilter struct {
	AcademicYear string
	Department   string
	Semester     int
	Section      string
	SubjectCode  string
	InstructorID string
}

// CourseRepository course data access
type CourseRepository interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// FindBySubjectSection courses teaching subject to section in an academic year
	FindBySubjectSection(ctx context.Context, academicYear, subjectCode, section string) ([]model.Course, error)
	List(ctx context.Context, filter CourseFilter, offset, limit int) ([]model.Course, int64, error)
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id string) error
	// BulkUpsert inserts or refreshes courses by their composite identity
	BulkUpsert(ctx context.Context, courses []model.Course) error
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, c *model.Course) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var c model.Course
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("course_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) FindBySubjectSection(ctx context.Context, academicYear, subjectCode, section string) ([]model.Course, error) {
	var courses []model.Course
	db := r.db.WithContext(ctx).Where("subject_code = ? AND section = ?", subjectCode, section)
	if academicYear != "" {
		db = db.Where("academic_year = ?", academicYear)
	}
	err := db.Order("academic_year DESC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) List(ctx context.Context, filter CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Course{})
	if filter.AcademicYear != "" {
		db = db.Where("academic_year = ?", filter.AcademicYear)
	}
	if filter.Department != "" {
		db = db.Where("department = ?", filter.Department)
	}
	if filter.Semester > 0 {
		db = db.Where("semester = ?", filter.Semester)
	}
	if filter.Section != "" {
		db = db.Where("section = ?", filter.Section)
	}
	if filter.SubjectCode != "" {
		db = db.Where("subject_code = ?", filter.SubjectCode)
	}
	if filter.InstructorID != "" {
		db = db.Where("instructor_id = ?", filter.InstructorID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset, limit = pageBounds(offset, limit)
	if err := db.Preload("Instructor").
		Offset(offset).Limit(limit).
		Order("academic_year DESC, department ASC, semester ASC, section ASC, subject_code ASC").
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *courseRepo) Update(ctx context.Context, c *model.Course) error {
	return r.db.WithContext(ctx).Omit("Instructor").Save(c).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("course_id = ?", id).
		Delete(&model.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *courseRepo) BulkUpsert(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit("Instructor").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "academic_year"}, {Name: "department"}, {Name: "semester"},
				{Name: "section"}, {Name: "subject_code"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"title", "instructor_id", "instructor_email", "updated_at", "updated_by"}),
		}).
		CreateInBatches(&courses, 200).Error
}
