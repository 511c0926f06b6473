package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Repository aggregates every repository and the transaction helpers
type Repository struct {
	db *gorm.DB

	User           UserRepository
	Term           AcademicTermRepository
	Student        StudentRepository
	Course         CourseRepository
	Paper          QuestionPaperRepository
	Mark           MarkRepository
	CoPo           CoPoRepository
	Attendance     AttendanceRepository
	TimeSlot       TimeSlotRepository
	CourseSchedule CourseScheduleRepository
	Policy         AcademicPolicyRepository
	Condonation    CondonationRepository
	Activity       ActivityPointRepository
}

// NewRepository builds every repository on the same handle
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:             db,
		User:           NewUserRepo(db),
		Term:           NewAcademicTermRepo(db),
		Student:        NewStudentRepo(db),
		Course:         NewCourseRepo(db),
		Paper:          NewQuestionPaperRepo(db),
		Mark:           NewMarkRepo(db),
		CoPo:           NewCoPoRepo(db),
		Attendance:     NewAttendanceRepo(db),
		TimeSlot:       NewTimeSlotRepo(db),
		CourseSchedule: NewCourseScheduleRepo(db),
		Policy:         NewAcademicPolicyRepo(db),
		Condonation:    NewCondonationRepo(db),
		Activity:       NewActivityPointRepo(db),
	}
}

// BeginTx starts a transaction. A Repository assembled without a database
// (unit tests with mock repositories) returns a nil tx; callers guard with tx != nil.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// BeginSnapshot starts a read-only repeatable-read transaction so that several
// reads observe one consistent state. Same nil convention as BeginTx.
func (r *Repository) BeginSnapshot(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	return tx, tx.Error
}

// WithTx returns a Repository whose repositories all run inside tx.
// A nil tx returns r itself.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// pageBounds clamps offset and limit for list queries
func pageBounds(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 500 {
		limit = 20
	}
	return offset, limit
}
