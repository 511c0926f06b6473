package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"acadtrack/backend/internal/model"
)

// AttendanceRepository class session and per-student attendance data access.
// Aggregates are computed from attendance_records on every read.
type AttendanceRepository interface {
	GetSession(ctx context.Context, sessionID string) (*model.ClassSession, error)
	ListSessions(ctx context.Context, subjectCode, section string, from, to *time.Time) ([]model.ClassSession, error)
	// SaveSession upserts the session log by session id
	SaveSession(ctx context.Context, s *model.ClassSession) error
	// UpsertRecords writes per-student rows by record id
	UpsertRecords(ctx context.Context, records []model.AttendanceRecord) error
	// DeleteSessionRecordsExcept removes rows of a session whose record id is not kept
	DeleteSessionRecordsExcept(ctx context.Context, sessionID string, keep []string) error
	ListRecordsBySession(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error)
	// TallyByStudent classes held / attended per subject for one student
	TallyByStudent(ctx context.Context, studentID string) ([]model.AttendanceTally, error)
	// TallyBySubject classes held / attended per student of one class
	TallyBySubject(ctx context.Context, subjectCode, section string) ([]model.AttendanceTally, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) GetSession(ctx context.Context, sessionID string) (*model.ClassSession, error) {
	var s model.ClassSession
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *attendanceRepo) ListSessions(ctx context.Context, subjectCode, section string, from, to *time.Time) ([]model.ClassSession, error) {
	var sessions []model.ClassSession
	db := r.db.WithContext(ctx).Where("subject_code = ?", subjectCode)
	if section != "" {
		db = db.Where("section = ?", section)
	}
	if from != nil {
		db = db.Where("date >= ?", *from)
	}
	if to != nil {
		db = db.Where("date <= ?", *to)
	}
	err := db.Order("date DESC, time_slot ASC").Find(&sessions).Error
	return sessions, err
}

func (r *attendanceRepo) SaveSession(ctx context.Context, s *model.ClassSession) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"present_count", "absent_count", "absentees", "marked_by", "revision", "updated_at", "updated_by",
			}),
		}).
		Create(s).Error
}

func (r *attendanceRepo) UpsertRecords(ctx context.Context, records []model.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "marked_by", "updated_at", "updated_by"}),
		}).
		CreateInBatches(&records, 200).Error
}

func (r *attendanceRepo) DeleteSessionRecordsExcept(ctx context.Context, sessionID string, keep []string) error {
	db := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if len(keep) > 0 {
		db = db.Where("record_id NOT IN ?", keep)
	}
	return db.Delete(&model.AttendanceRecord{}).Error
}

func (r *attendanceRepo) ListRecordsBySession(ctx context.Context, sessionID string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("student_id ASC").
		Find(&records).Error
	return records, err
}

const tallySelect = "student_id, subject_code, COUNT(*) AS total, " +
	"SUM(CASE WHEN status = 'present' THEN 1 ELSE 0 END) AS attended"

func (r *attendanceRepo) TallyByStudent(ctx context.Context, studentID string) ([]model.AttendanceTally, error) {
	var rows []model.AttendanceTally
	err := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select(tallySelect).
		Where("student_id = ?", studentID).
		Group("student_id, subject_code").
		Order("subject_code ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *attendanceRepo) TallyBySubject(ctx context.Context, subjectCode, section string) ([]model.AttendanceTally, error) {
	var rows []model.AttendanceTally
	db := r.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Select(tallySelect).
		Where("subject_code = ?", subjectCode)
	if section != "" {
		db = db.Where("section = ?", section)
	}
	err := db.Group("student_id, subject_code").
		Order("student_id ASC").
		Scan(&rows).Error
	return rows, err
}
