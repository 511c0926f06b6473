package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/attainment"
	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	meResult      *dto.UserResponse
	meErr         error
	changePassErr error

	loggedOutJTI string
	loggedOutExp time.Time
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, expiresAt time.Time) error {
	m.loggedOutJTI, m.loggedOutExp = jti, expiresAt
	return m.logoutErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) AttendanceReport(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) AttainmentReport(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) MarksSheet(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock MarkService ──

type mockMarkService struct {
	upsertResult *dto.MarkResponse
	err          error

	caller service.Caller
}

func (m *mockMarkService) Upsert(_ context.Context, _ *dto.UpsertMarkRequest, _ string) (*dto.MarkResponse, error) {
	return m.upsertResult, m.err
}
func (m *mockMarkService) BulkUpsert(_ context.Context, _ *dto.BulkUpsertMarksRequest, _ string) ([]dto.MarkResponse, error) {
	return nil, m.err
}
func (m *mockMarkService) ListBySubject(_ context.Context, _ string, _ *dto.MarkListRequest) ([]dto.MarkResponse, error) {
	return nil, m.err
}
func (m *mockMarkService) ListByStudent(_ context.Context, caller service.Caller, _ string) ([]dto.MarkResponse, error) {
	m.caller = caller
	return []dto.MarkResponse{}, m.err
}
func (m *mockMarkService) Delete(_ context.Context, _ string) error {
	return m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", model.RoleAdmin)
	c.Set("token_id", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

func setStudentAuth(c *gin.Context) {
	c.Set("user_id", "student-user-id")
	c.Set("role", model.RoleStudent)
	c.Set("student_id", "1CS001")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{
		LoginID:  "1CS001",
		Password: "Test1234",
	}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", bytes.NewReader([]byte("invalid json")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)
	w := serve(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{
		LoginID:  "1CS001",
		Password: "wrong",
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_Revoked(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrRefreshInvalid})

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "old"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	w := serve(r, "POST", "/auth/refresh", jsonBody(map[string]string{}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Success(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		meResult: &dto.UserResponse{ID: "test-user-id", Name: "Test User"},
	})

	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		setAuth(c)
		h.GetCurrentUser(c)
	})
	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	w := serve(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_TooShort(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	w := serve(r, "PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "OldPass123",
		NewPassword: "short",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongOld(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrOldPasswordWrong})

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	w := serve(r, "PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "NotMine123",
		NewPassword: "NewPass123",
	}))

	if resp := parseResponse(w); resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_PassesTokenIdentity(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	w := serve(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.loggedOutJTI != "test-jti" {
		t.Errorf("expected jti test-jti, got %q", mock.loggedOutJTI)
	}
	if mock.loggedOutExp.IsZero() {
		t.Error("expected the token expiry to be forwarded")
	}
}

// ═══════════════════════════════════════════════════════════
// MarkHandler Tests
// ═══════════════════════════════════════════════════════════

func TestMarkHandler_ListStudentMarks_UsesCallerIdentity(t *testing.T) {
	mock := &mockMarkService{}
	h := NewMarkHandler(mock)

	r := gin.New()
	r.GET("/marks/student", func(c *gin.Context) {
		setStudentAuth(c)
		h.ListStudentMarks(c)
	})
	w := serve(r, "GET", "/marks/student", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.caller.StudentID != "1CS001" || mock.caller.Role != model.RoleStudent {
		t.Errorf("caller not built from the token: %+v", mock.caller)
	}
}

func TestMarkHandler_ListStudentMarks_Forbidden(t *testing.T) {
	h := NewMarkHandler(&mockMarkService{err: service.ErrNoPermission})

	r := gin.New()
	r.GET("/marks/student", func(c *gin.Context) {
		setStudentAuth(c)
		h.ListStudentMarks(c)
	})
	w := serve(r, "GET", "/marks/student?student_id=1CS002", nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestMarkHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"UnknownQuestion", service.ErrMarkUnknownQuestion, 400, 17002},
		{"OutOfRange", service.ErrMarkScoreOutOfRange, 400, 17003},
		{"Duplicate", service.ErrMarkDuplicate, 400, 17004},
		{"Empty", service.ErrMarkEmpty, 400, 17005},
		{"DuplicateQuestion", service.ErrMarkDuplicateQuestion, 400, 17007},
		{"StudentNotFound", service.ErrStudentNotFound, 404, 13001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMarkHandler(&mockMarkService{err: tt.err})

			r := gin.New()
			r.POST("/marks", func(c *gin.Context) {
				setAuth(c)
				h.UpsertMark(c)
			})
			w := serve(r, "POST", "/marks", jsonBody(dto.UpsertMarkRequest{
				ExamLabel:   "IA1",
				SubjectCode: "CS501",
				StudentID:   "1CS001",
				Scores:      map[string]float64{"Q1": 4},
			}))

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Attendance_Success(t *testing.T) {
	h := NewExportHandler(&mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "attendance_CS501_A.xlsx",
	})

	r := gin.New()
	r.GET("/export/attendance", h.ExportAttendance)
	w := serve(r, "GET", "/export/attendance?subject_code=CS501&section=A", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxMime {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename*=UTF-8''attendance_CS501_A.xlsx" {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
	if w.Body.String() != "excel content" {
		t.Error("expected the workbook bytes as body")
	}
}

func TestExportHandler_Attendance_MissingSubject(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	r := gin.New()
	r.GET("/export/attendance", h.ExportAttendance)
	w := serve(r, "GET", "/export/attendance", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_Marks_MissingExam(t *testing.T) {
	h := NewExportHandler(&mockExportService{})

	r := gin.New()
	r.GET("/export/marks", h.ExportMarks)
	w := serve(r, "GET", "/export/marks?subject_code=CS501", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NoAttendance", service.ErrExportNoAttendance, 404, 24001},
		{"NoMarks", service.ErrExportNoMarks, 404, 24002},
		{"AttainmentNoMarks", attainment.ErrNoMarks, 404, 20001},
		{"NoApprovedPaper", attainment.ErrNoApprovedPaper, 422, 20002},
		{"GenerateFail", service.ErrExportGenerateFail, 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewExportHandler(&mockExportService{err: tt.err})

			r := gin.New()
			r.GET("/export/attainment/:subject_code", h.ExportAttainment)
			w := serve(r, "GET", "/export/attainment/CS501", nil)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}
