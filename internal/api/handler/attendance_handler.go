package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// AttendanceHandler class attendance marking and summaries
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// MarkAttendance records one class session.
// A session that already exists is only replaced when overwrite is set;
// otherwise the stored session comes back in details.
// POST /api/v1/attendance
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.attendanceSvc.Mark(c.Request.Context(), &req, callerID)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

// GetSession one class session with its per-student rows
// GET /api/v1/attendance/session
func (h *AttendanceHandler) GetSession(c *gin.Context) {
	var q dto.SessionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	res, err := h.attendanceSvc.GetSession(c.Request.Context(), &q)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

// ListSessions sessions of a class
// GET /api/v1/attendance/sessions
func (h *AttendanceHandler) ListSessions(c *gin.Context) {
	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	sessions, err := h.attendanceSvc.ListSessions(c.Request.Context(), &req)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": sessions})
}

// StudentSummary per-subject attendance of a student; students get their own
// GET /api/v1/attendance/summary?student_id=
func (h *AttendanceHandler) StudentSummary(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	res, err := h.attendanceSvc.StudentSummary(c.Request.Context(), caller, c.Query("student_id"))
	if err != nil {
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

// SubjectStatus compliance of one student in one subject
// GET /api/v1/attendance/status?student_id=&subject_code=
func (h *AttendanceHandler) SubjectStatus(c *gin.Context) {
	studentID, subject := c.Query("student_id"), c.Query("subject_code")
	if studentID == "" || subject == "" {
		response.BadRequest(c, 10001, "student_id and subject_code are required")
		return
	}

	res, err := h.attendanceSvc.SubjectStatus(c.Request.Context(), studentID, subject)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

// SubjectReport per-student rows of a class
// GET /api/v1/attendance/report
func (h *AttendanceHandler) SubjectReport(c *gin.Context) {
	var req dto.SubjectReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	res, err := h.attendanceSvc.SubjectReport(c.Request.Context(), &req)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, res)
}

func handleAttendanceError(c *gin.Context, err error) {
	var conflict *service.SessionConflictError
	switch {
	case errors.As(err, &conflict):
		response.ErrorWithDetails(c, http.StatusConflict, 19001,
			"attendance for this class session was already submitted, resubmit with overwrite to correct it",
			conflict.Session)
	case errors.Is(err, service.ErrSessionAlreadyMarked):
		response.Conflict(c, 19001, "attendance for this class session was already submitted")
	case errors.Is(err, service.ErrSessionBusy):
		response.Conflict(c, 19002, "attendance for this class session is being submitted by another request")
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 19003, "class session not found")
	case errors.Is(err, service.ErrAttendanceEmptyRoster):
		response.Unprocessable(c, 19004, "no students to mark for this class")
	case errors.Is(err, service.ErrAttendanceDuplicateStudent),
		errors.Is(err, service.ErrAttendanceUnknownAbsentee),
		errors.Is(err, service.ErrAttendanceInvalid),
		errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 19005, err.Error())
	case errors.Is(err, service.ErrTimeSlotNotFound):
		response.BadRequest(c, 19006, "time slot not found")
	case errors.Is(err, service.ErrTimeSlotInactive):
		response.BadRequest(c, 19007, "time slot is not active")
	case errors.Is(err, service.ErrCourseNotFound):
		response.Unprocessable(c, 19008, "no course configured for this subject and section")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "no permission for this operation")
	default:
		response.InternalError(c)
	}
}
