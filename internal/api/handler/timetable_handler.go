package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// TimetableHandler faculty teaching timetable
type TimetableHandler struct {
	svc service.TimetableService
}

// NewTimetableHandler creates a TimetableHandler
func NewTimetableHandler(svc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc}
}

// ImportICS replaces the caller's timetable from a calendar
// POST /api/v1/timetable/import
//
// Two forms are accepted:
//   - file upload: multipart/form-data, field "file", optional "term_id"
//   - by URL: application/json, body {"url": "...", "term_id": "..."}
func (h *TimetableHandler) ImportICS(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		resp, err := h.svc.ImportICS(c.Request.Context(), file, userID, c.PostForm("term_id"))
		if err != nil {
			handleTimetableError(c, err)
			return
		}
		response.Created(c, resp)
		return
	}

	var req dto.ImportICSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// plain form submission
		req.URL = c.PostForm("url")
		req.TermID = c.PostForm("term_id")
	}
	if req.URL == "" {
		response.BadRequest(c, 22100, "upload an .ics file or give a calendar url")
		return
	}

	resp, err := h.svc.ImportICSFromURL(c.Request.Context(), req.URL, userID, req.TermID)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.Created(c, resp)
}

// GetMyTimetable the caller's weekly slots
// GET /api/v1/timetable/me
func (h *TimetableHandler) GetMyTimetable(c *gin.Context) {
	var req dto.MyTimetableRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entries, err := h.svc.Mine(c.Request.Context(), userID, req.TermID)
	if err != nil {
		handleTimetableError(c, err)
		return
	}
	response.OK(c, gin.H{"list": entries})
}

func handleTimetableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimetableICSParseFailed):
		response.BadRequest(c, 22101, "calendar file could not be parsed")
	case errors.Is(err, service.ErrTimetableICSEmpty):
		response.Unprocessable(c, 22102, "calendar holds no teaching events inside the term")
	case errors.Is(err, service.ErrTimetableICSFetchFailed):
		response.ErrorWithDetails(c, http.StatusBadGateway, 22103, "calendar url could not be fetched", err.Error())
	case errors.Is(err, service.ErrTermNotFound):
		response.NotFound(c, 14001, "academic term not found")
	case errors.Is(err, service.ErrNoActiveTerm):
		response.Unprocessable(c, 14002, "no active academic term")
	default:
		response.InternalError(c)
	}
}
