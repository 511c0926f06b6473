package service

import (
	"go.uber.org/zap"

	"acadtrack/backend/config"
	"acadtrack/backend/internal/repository"
	"acadtrack/backend/pkg/jwt"
	"acadtrack/backend/pkg/redis"
)

// Service aggregates every business service
type Service struct {
	Auth        AuthService
	User        UserService
	Term        AcademicTermService
	Student     StudentService
	Course      CourseService
	Paper       QuestionPaperService
	Mark        MarkService
	CoPo        CoPoService
	Attendance  AttendanceService
	Attainment  AttainmentService
	Policy      PolicyService
	Condonation CondonationService
	Activity    ActivityService
	TimeSlot    TimeSlotService
	Timetable   TimetableService
	Export      ExportService
	Import      ImportService
}

// NewService wires every service. rdb may be nil when Redis is not configured;
// token revocation and the attendance submission lock are then skipped.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	var (
		blacklist TokenBlacklist
		locker    Locker
	)
	if rdb != nil {
		blacklist = rdb
		locker = rdb
	}

	policy := NewPolicyService(repo, logger)
	attendance := NewAttendanceService(repo, policy, locker, cfg.Attendance.SubmitLockTTL, logger)
	attainment := NewAttainmentService(repo, logger)
	marks := NewMarkService(repo, logger)
	coPo := NewCoPoService(repo, logger)

	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:        NewUserService(repo, logger),
		Term:        NewAcademicTermService(repo, logger),
		Student:     NewStudentService(repo, logger),
		Course:      NewCourseService(repo, logger),
		Paper:       NewQuestionPaperService(repo, logger),
		Mark:        marks,
		CoPo:        coPo,
		Attendance:  attendance,
		Attainment:  attainment,
		Policy:      policy,
		Condonation: NewCondonationService(repo, attendance, logger),
		Activity:    NewActivityService(repo, policy, logger),
		TimeSlot:    NewTimeSlotService(repo, logger),
		Timetable:   NewTimetableService(repo, logger),
		Export:      NewExportService(repo, attendance, attainment, logger),
		Import:      NewImportService(repo, marks, coPo, cfg.Ingest.MaxRows, logger),
	}
}
