package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/repository"
	"acadtrack/backend/pkg/redis"
)

// ── attendance module errors ──

var (
	ErrAttendanceInvalid          = errors.New("invalid attendance submission")
	ErrAttendanceEmptyRoster      = errors.New("no students to mark for this class")
	ErrAttendanceDuplicateStudent = errors.New("student listed more than once")
	ErrAttendanceUnknownAbsentee  = errors.New("absentee is not on the class roster")
	ErrSessionAlreadyMarked       = errors.New("attendance for this class session was already submitted")
	ErrSessionBusy                = errors.New("attendance for this class session is being submitted by another request")
	ErrSessionNotFound            = errors.New("class session not found")
)

// Compliance statuses
const (
	ComplianceSafe        = "safe"
	ComplianceCondonation = "condonation_required"
	ComplianceDetention   = "detention_risk"
	ComplianceNoClasses   = "no_classes"
)

// SessionConflictError carries the stored session when a submission would overwrite it
type SessionConflictError struct {
	Session *dto.SessionResponse
}

func (e *SessionConflictError) Error() string { return ErrSessionAlreadyMarked.Error() }

func (e *SessionConflictError) Unwrap() error { return ErrSessionAlreadyMarked }

// Locker short-lived named locks; satisfied by *redis.Client
type Locker interface {
	AcquireLock(ctx context.Context, name string, ttl time.Duration) (*redis.Lock, error)
}

// AttendanceService class attendance marking and compliance
type AttendanceService interface {
	Mark(ctx context.Context, req *dto.MarkAttendanceRequest, callerID string) (*dto.SessionDetailResponse, error)
	GetSession(ctx context.Context, q *dto.SessionQuery) (*dto.SessionDetailResponse, error)
	ListSessions(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, error)
	StudentSummary(ctx context.Context, caller Caller, studentID string) (*dto.StudentAttendanceSummary, error)
	SubjectReport(ctx context.Context, req *dto.SubjectReportRequest) (*dto.SubjectAttendanceReport, error)
	// SubjectStatus compliance of one student in one subject
	SubjectStatus(ctx context.Context, studentID, subjectCode string) (*dto.SubjectAttendance, error)
}

type attendanceService struct {
	repo    *repository.Repository
	policy  PolicyService
	locker  Locker
	lockTTL time.Duration
	logger  *zap.Logger
}

// NewAttendanceService creates an AttendanceService. locker may be nil.
func NewAttendanceService(repo *repository.Repository, policy PolicyService, locker Locker, lockTTL time.Duration, logger *zap.Logger) AttendanceService {
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &attendanceService{repo: repo, policy: policy, locker: locker, lockTTL: lockTTL, logger: logger}
}

// SessionKey deterministic id of a class session. Components are expected in canonical form.
func SessionKey(date time.Time, section, subjectCode, timeSlot string) string {
	return date.Format(dateLayout) + "_" + section + "_" + subjectCode + "_" + timeSlot
}

// AttendanceRecordID deterministic id of one student's record in a session
func AttendanceRecordID(sessionID, studentID string) string {
	return sessionID + "_" + studentID
}

// Compliance classifies attended/total against the safe and condonation percentages.
// can_miss is how many further classes may be skipped while staying safe; must_attend
// is how many consecutive classes are needed to reach the safe percentage.
func Compliance(studentID, subjectCode string, total, attended int, safe, condonation float64) dto.SubjectAttendance {
	out := dto.SubjectAttendance{
		StudentID:   studentID,
		SubjectCode: subjectCode,
		Total:       total,
		Attended:    attended,
	}
	if total <= 0 {
		out.Status = ComplianceNoClasses
		return out
	}

	a, t := float64(attended), float64(total)
	out.Percent = math.Round(1000*a/t) / 10

	const eps = 1e-9
	switch {
	case 100*a >= safe*t-eps:
		out.Status = ComplianceSafe
		out.CanMiss = int(math.Floor((100*a-safe*t)/safe + eps))
	case 100*a >= condonation*t-eps:
		out.Status = ComplianceCondonation
	default:
		out.Status = ComplianceDetention
	}
	if out.Status != ComplianceSafe && safe < 100 {
		out.MustAttend = int(math.Ceil((safe*t-100*a)/(100-safe) - eps))
	}
	return out
}

// ────────────────────── Mark ──────────────────────

func (s *attendanceService) Mark(ctx context.Context, req *dto.MarkAttendanceRequest, callerID string) (*dto.SessionDetailResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	section := normalizeCode(req.Section)
	subject := normalizeCode(req.SubjectCode)
	slotCode := normalizeCode(req.TimeSlot)
	if section == "" || subject == "" || slotCode == "" {
		return nil, fmt.Errorf("%w: section, subject code and time slot are required", ErrAttendanceInvalid)
	}
	if len(req.Entries) > 0 && len(req.Absentees) > 0 {
		return nil, fmt.Errorf("%w: give either entries or absentees", ErrAttendanceInvalid)
	}

	if err := s.checkTimeSlot(ctx, slotCode); err != nil {
		return nil, err
	}
	course, err := s.findCourse(ctx, subject, section)
	if err != nil {
		return nil, err
	}

	statuses, err := s.resolveStatuses(ctx, req, course, section)
	if err != nil {
		return nil, err
	}

	sessionID := SessionKey(date, section, subject, slotCode)

	if s.locker != nil {
		lock, err := s.locker.AcquireLock(ctx, "attendance:"+sessionID, s.lockTTL)
		if err != nil {
			if errors.Is(err, redis.ErrLockHeld) {
				return nil, ErrSessionBusy
			}
			// the upsert below still prevents duplicates
			s.logger.Warn("acquire attendance lock failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		defer lock.Release(context.WithoutCancel(ctx))
	}

	revision := 1
	existing, err := s.repo.Attendance.GetSession(ctx, sessionID)
	switch {
	case err == nil:
		if !req.Overwrite {
			return nil, &SessionConflictError{Session: toSessionResponse(existing)}
		}
		revision = existing.Revision + 1
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("load class session failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	ids := make([]string, 0, len(statuses))
	for id := range statuses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	session := &model.ClassSession{
		SessionID:   sessionID,
		Date:        date,
		Section:     section,
		SubjectCode: subject,
		TimeSlot:    slotCode,
		Absentees:   model.StringArray{},
		MarkedBy:    &callerID,
		Revision:    revision,
	}
	session.CreatedBy = &callerID
	session.UpdatedBy = &callerID

	records := make([]model.AttendanceRecord, 0, len(ids))
	keep := make([]string, 0, len(ids))
	for _, id := range ids {
		status := statuses[id]
		if status == model.AttendancePresent {
			session.PresentCount++
		} else {
			session.AbsentCount++
			session.Absentees = append(session.Absentees, id)
		}
		rec := model.AttendanceRecord{
			RecordID:    AttendanceRecordID(sessionID, id),
			SessionID:   sessionID,
			Date:        date,
			Section:     section,
			SubjectCode: subject,
			TimeSlot:    slotCode,
			StudentID:   id,
			Status:      status,
			MarkedBy:    &callerID,
		}
		rec.CreatedBy = &callerID
		rec.UpdatedBy = &callerID
		records = append(records, rec)
		keep = append(keep, rec.RecordID)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Attendance.SaveSession(ctx, session); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("save class session failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	if err := txRepo.Attendance.UpsertRecords(ctx, records); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("save attendance records failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	// an overwrite may drop students that were listed in the previous revision
	if err := txRepo.Attendance.DeleteSessionRecordsExcept(ctx, sessionID, keep); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("prune attendance records failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit transaction failed", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("attendance marked",
		zap.String("session_id", sessionID),
		zap.Int("present", session.PresentCount),
		zap.Int("absent", session.AbsentCount),
		zap.Int("revision", revision),
	)

	return toSessionDetail(session, records), nil
}

func (s *attendanceService) checkTimeSlot(ctx context.Context, code string) error {
	slot, err := s.repo.TimeSlot.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeSlotNotFound
		}
		s.logger.Error("load time slot failed", zap.String("code", code), zap.Error(err))
		return err
	}
	if !slot.IsActive {
		return ErrTimeSlotInactive
	}
	return nil
}

// findCourse returns the course teaching subject to section in the active academic year.
// It returns nil without error when there is no active term or no course list for that year.
func (s *attendanceService) findCourse(ctx context.Context, subject, section string) (*model.Course, error) {
	term, err := s.repo.Term.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("load current term failed", zap.Error(err))
		return nil, err
	}

	courses, err := s.repo.Course.FindBySubjectSection(ctx, term.AcademicYear, subject, section)
	if err != nil {
		s.logger.Error("look up course failed", zap.String("subject_code", subject), zap.String("section", section), zap.Error(err))
		return nil, err
	}
	if len(courses) > 0 {
		return &courses[0], nil
	}

	_, configured, err := s.repo.Course.List(ctx, repository.CourseFilter{AcademicYear: term.AcademicYear}, 0, 1)
	if err != nil {
		s.logger.Error("count courses failed", zap.Error(err))
		return nil, err
	}
	if configured > 0 {
		return nil, ErrCourseNotFound
	}
	return nil, nil
}

// resolveStatuses student id → present/absent for the submission
func (s *attendanceService) resolveStatuses(ctx context.Context, req *dto.MarkAttendanceRequest, course *model.Course, section string) (map[string]string, error) {
	statuses := make(map[string]string)

	if len(req.Entries) > 0 {
		ids := make([]string, 0, len(req.Entries))
		for _, e := range req.Entries {
			id := normalizeCode(e.StudentID)
			if id == "" {
				return nil, fmt.Errorf("%w: empty student id", ErrAttendanceInvalid)
			}
			if _, dup := statuses[id]; dup {
				return nil, fmt.Errorf("%w: %s", ErrAttendanceDuplicateStudent, id)
			}
			statuses[id] = model.AttendanceAbsent
			if e.Present {
				statuses[id] = model.AttendancePresent
			}
			ids = append(ids, id)
		}

		known, err := s.repo.Student.GetByIDs(ctx, ids)
		if err != nil {
			s.logger.Error("load students failed", zap.Error(err))
			return nil, err
		}
		if len(known) != len(ids) {
			return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, missingStudents(ids, known))
		}
		return statuses, nil
	}

	// default-present roster
	var (
		department string
		semester   int
	)
	if course != nil {
		department, semester = course.Department, course.Semester
	}
	roster, err := s.repo.Student.ListRoster(ctx, department, semester, section)
	if err != nil {
		s.logger.Error("load roster failed", zap.String("section", section), zap.Error(err))
		return nil, err
	}
	if len(roster) == 0 {
		return nil, ErrAttendanceEmptyRoster
	}
	for _, st := range roster {
		statuses[st.StudentID] = model.AttendancePresent
	}

	seen := make(map[string]bool, len(req.Absentees))
	for _, raw := range req.Absentees {
		id := normalizeCode(raw)
		if seen[id] {
			return nil, fmt.Errorf("%w: %s", ErrAttendanceDuplicateStudent, id)
		}
		seen[id] = true
		if _, ok := statuses[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrAttendanceUnknownAbsentee, raw)
		}
		statuses[id] = model.AttendanceAbsent
	}
	return statuses, nil
}

// ────────────────────── GetSession ──────────────────────

func (s *attendanceService) GetSession(ctx context.Context, q *dto.SessionQuery) (*dto.SessionDetailResponse, error) {
	date, err := parseDate(q.Date)
	if err != nil {
		return nil, err
	}
	sessionID := SessionKey(date, normalizeCode(q.Section), normalizeCode(q.SubjectCode), normalizeCode(q.TimeSlot))

	session, err := s.repo.Attendance.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("load class session failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	records, err := s.repo.Attendance.ListRecordsBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("load attendance records failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return toSessionDetail(session, records), nil
}

// ────────────────────── ListSessions ──────────────────────

func (s *attendanceService) ListSessions(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, error) {
	var from, to *time.Time
	if req.From != "" {
		t, err := parseDate(req.From)
		if err != nil {
			return nil, err
		}
		from = &t
	}
	if req.To != "" {
		t, err := parseDate(req.To)
		if err != nil {
			return nil, err
		}
		to = &t
	}

	subject := normalizeCode(req.SubjectCode)
	sessions, err := s.repo.Attendance.ListSessions(ctx, subject, normalizeCode(req.Section), from, to)
	if err != nil {
		s.logger.Error("list class sessions failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}

	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, *toSessionResponse(&sessions[i]))
	}
	return result, nil
}

// ────────────────────── StudentSummary ──────────────────────

func (s *attendanceService) StudentSummary(ctx context.Context, caller Caller, studentID string) (*dto.StudentAttendanceSummary, error) {
	sid, err := studentScope(caller, studentID)
	if err != nil {
		return nil, err
	}
	if _, err := resolveStudent(ctx, s.repo, s.logger, sid); err != nil {
		return nil, err
	}

	policy, err := s.policy.Current(ctx)
	if err != nil {
		return nil, err
	}

	tallies, err := s.repo.Attendance.TallyByStudent(ctx, sid)
	if err != nil {
		s.logger.Error("tally attendance failed", zap.String("student_id", sid), zap.Error(err))
		return nil, err
	}

	subjects := make([]dto.SubjectAttendance, 0, len(tallies))
	for _, t := range tallies {
		subjects = append(subjects, Compliance(sid, t.SubjectCode, t.Total, t.Attended, policy.SafePercent, policy.CondonationPercent))
	}

	return &dto.StudentAttendanceSummary{
		StudentID:          sid,
		SafePercent:        policy.SafePercent,
		CondonationPercent: policy.CondonationPercent,
		Subjects:           subjects,
	}, nil
}

// ────────────────────── SubjectStatus ──────────────────────

func (s *attendanceService) SubjectStatus(ctx context.Context, studentID, subjectCode string) (*dto.SubjectAttendance, error) {
	sid, subject := normalizeCode(studentID), normalizeCode(subjectCode)

	policy, err := s.policy.Current(ctx)
	if err != nil {
		return nil, err
	}
	tallies, err := s.repo.Attendance.TallyByStudent(ctx, sid)
	if err != nil {
		s.logger.Error("tally attendance failed", zap.String("student_id", sid), zap.Error(err))
		return nil, err
	}

	var total, attended int
	for _, t := range tallies {
		if t.SubjectCode == subject {
			total, attended = t.Total, t.Attended
			break
		}
	}
	out := Compliance(sid, subject, total, attended, policy.SafePercent, policy.CondonationPercent)
	return &out, nil
}

// ────────────────────── SubjectReport ──────────────────────

func (s *attendanceService) SubjectReport(ctx context.Context, req *dto.SubjectReportRequest) (*dto.SubjectAttendanceReport, error) {
	subject, section := normalizeCode(req.SubjectCode), normalizeCode(req.Section)

	policy, err := s.policy.Current(ctx)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.Attendance.ListSessions(ctx, subject, section, nil, nil)
	if err != nil {
		s.logger.Error("list class sessions failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}

	tallies, err := s.repo.Attendance.TallyBySubject(ctx, subject, section)
	if err != nil {
		s.logger.Error("tally attendance failed", zap.String("subject_code", subject), zap.Error(err))
		return nil, err
	}

	students := make([]dto.SubjectAttendance, 0, len(tallies))
	for _, t := range tallies {
		students = append(students, Compliance(t.StudentID, subject, t.Total, t.Attended, policy.SafePercent, policy.CondonationPercent))
	}

	return &dto.SubjectAttendanceReport{
		SubjectCode: subject,
		Section:     section,
		Sessions:    len(sessions),
		Students:    students,
	}, nil
}

func toSessionResponse(s *model.ClassSession) *dto.SessionResponse {
	absentees := []string(s.Absentees)
	if absentees == nil {
		absentees = []string{}
	}
	return &dto.SessionResponse{
		SessionID:    s.SessionID,
		Date:         s.Date.Format(dateLayout),
		Section:      s.Section,
		SubjectCode:  s.SubjectCode,
		TimeSlot:     s.TimeSlot,
		PresentCount: s.PresentCount,
		AbsentCount:  s.AbsentCount,
		Absentees:    absentees,
		Revision:     s.Revision,
		MarkedAt:     formatTimestamp(s.UpdatedAt),
	}
}

func toSessionDetail(s *model.ClassSession, records []model.AttendanceRecord) *dto.SessionDetailResponse {
	entries := make([]dto.AttendanceRecordEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, dto.AttendanceRecordEntry{StudentID: r.StudentID, Status: r.Status})
	}
	return &dto.SessionDetailResponse{
		Session: *toSessionResponse(s),
		Records: entries,
	}
}
