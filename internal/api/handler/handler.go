package handler

import "acadtrack/backend/internal/service"

// Handler aggregates every module handler
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Term        *AcademicTermHandler
	Student     *StudentHandler
	Course      *CourseHandler
	Paper       *QuestionPaperHandler
	Mark        *MarkHandler
	CoPo        *CoPoHandler
	Attendance  *AttendanceHandler
	Attainment  *AttainmentHandler
	Policy      *PolicyHandler
	Condonation *CondonationHandler
	Activity    *ActivityHandler
	TimeSlot    *TimeSlotHandler
	Timetable   *TimetableHandler
	Import      *ImportHandler
	Export      *ExportHandler
}

// NewHandler builds every handler from the service aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		User:        NewUserHandler(svc.User),
		Term:        NewAcademicTermHandler(svc.Term),
		Student:     NewStudentHandler(svc.Student),
		Course:      NewCourseHandler(svc.Course),
		Paper:       NewQuestionPaperHandler(svc.Paper),
		Mark:        NewMarkHandler(svc.Mark),
		CoPo:        NewCoPoHandler(svc.CoPo),
		Attendance:  NewAttendanceHandler(svc.Attendance),
		Attainment:  NewAttainmentHandler(svc.Attainment),
		Policy:      NewPolicyHandler(svc.Policy),
		Condonation: NewCondonationHandler(svc.Condonation),
		Activity:    NewActivityHandler(svc.Activity),
		TimeSlot:    NewTimeSlotHandler(svc.TimeSlot),
		Timetable:   NewTimetableHandler(svc.Timetable),
		Import:      NewImportHandler(svc.Import),
		Export:      NewExportHandler(svc.Export),
	}
}
