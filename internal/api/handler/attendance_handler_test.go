package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
)

type mockAttendanceService struct {
	markResult *dto.SessionDetailResponse
	err        error

	caller service.Caller
}

func (m *mockAttendanceService) Mark(_ context.Context, _ *dto.MarkAttendanceRequest, _ string) (*dto.SessionDetailResponse, error) {
	return m.markResult, m.err
}
func (m *mockAttendanceService) GetSession(_ context.Context, _ *dto.SessionQuery) (*dto.SessionDetailResponse, error) {
	return m.markResult, m.err
}
func (m *mockAttendanceService) ListSessions(_ context.Context, _ *dto.SessionListRequest) ([]dto.SessionResponse, error) {
	return nil, m.err
}
func (m *mockAttendanceService) StudentSummary(_ context.Context, caller service.Caller, _ string) (*dto.StudentAttendanceSummary, error) {
	m.caller = caller
	return &dto.StudentAttendanceSummary{}, m.err
}
func (m *mockAttendanceService) SubjectReport(_ context.Context, _ *dto.SubjectReportRequest) (*dto.SubjectAttendanceReport, error) {
	return nil, m.err
}
func (m *mockAttendanceService) SubjectStatus(_ context.Context, _, _ string) (*dto.SubjectAttendance, error) {
	return nil, m.err
}

func markBody() dto.MarkAttendanceRequest {
	return dto.MarkAttendanceRequest{
		Date:        "2025-09-01",
		Section:     "A",
		SubjectCode: "CS501",
		TimeSlot:    "P1",
		Absentees:   []string{"1CS002"},
	}
}

func attendanceRouter(h *AttendanceHandler) *gin.Engine {
	r := gin.New()
	r.POST("/attendance", func(c *gin.Context) {
		setAuth(c)
		h.MarkAttendance(c)
	})
	return r
}

func TestAttendanceHandler_Mark_Success(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{
		markResult: &dto.SessionDetailResponse{Session: dto.SessionResponse{SessionID: "2025-09-01_A_CS501_P1"}},
	})

	w := serve(attendanceRouter(h), "POST", "/attendance", jsonBody(markBody()))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAttendanceHandler_Mark_MissingFields(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{})

	w := serve(attendanceRouter(h), "POST", "/attendance", jsonBody(map[string]string{"date": "2025-09-01"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAttendanceHandler_Mark_ConflictCarriesStoredSession(t *testing.T) {
	stored := &dto.SessionResponse{SessionID: "2025-09-01_A_CS501_P1", Revision: 1, AbsentCount: 2}
	h := NewAttendanceHandler(&mockAttendanceService{err: &service.SessionConflictError{Session: stored}})

	w := serve(attendanceRouter(h), "POST", "/attendance", jsonBody(markBody()))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 19001 {
		t.Errorf("expected code 19001, got %d", resp.Code)
	}
	details, ok := resp.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("expected the stored session in details, got %T", resp.Details)
	}
	if details["session_id"] != "2025-09-01_A_CS501_P1" {
		t.Errorf("unexpected details %v", details)
	}
}

func TestAttendanceHandler_Mark_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"Busy", service.ErrSessionBusy, 409, 19002},
		{"EmptyRoster", service.ErrAttendanceEmptyRoster, 422, 19004},
		{"Duplicate", service.ErrAttendanceDuplicateStudent, 400, 19005},
		{"UnknownAbsentee", service.ErrAttendanceUnknownAbsentee, 400, 19005},
		{"BadDate", service.ErrInvalidDate, 400, 19005},
		{"SlotNotFound", service.ErrTimeSlotNotFound, 400, 19006},
		{"SlotInactive", service.ErrTimeSlotInactive, 400, 19007},
		{"NoCourse", service.ErrCourseNotFound, 422, 19008},
		{"StudentNotFound", service.ErrStudentNotFound, 404, 13001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAttendanceHandler(&mockAttendanceService{err: tt.err})

			w := serve(attendanceRouter(h), "POST", "/attendance", jsonBody(markBody()))

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAttendanceHandler_StudentSummary_StudentCaller(t *testing.T) {
	mock := &mockAttendanceService{}
	h := NewAttendanceHandler(mock)

	r := gin.New()
	r.GET("/attendance/summary", func(c *gin.Context) {
		setStudentAuth(c)
		h.StudentSummary(c)
	})
	w := serve(r, "GET", "/attendance/summary", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.caller.StudentID != "1CS001" {
		t.Errorf("expected student id from the token, got %+v", mock.caller)
	}
}

func TestAttendanceHandler_SubjectStatus_RequiresBothKeys(t *testing.T) {
	h := NewAttendanceHandler(&mockAttendanceService{})

	r := gin.New()
	r.GET("/attendance/status", h.SubjectStatus)
	w := serve(r, "GET", "/attendance/status?student_id=1CS001", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
