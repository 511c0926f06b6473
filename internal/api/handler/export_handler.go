package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/attainment"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler Excel downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance attendance report of a class
// GET /api/v1/export/attendance?subject_code=&section=
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	subject := c.Query("subject_code")
	if subject == "" {
		response.BadRequest(c, 10001, "subject_code is required")
		return
	}

	buf, filename, err := h.exportSvc.AttendanceReport(c.Request.Context(), subject, c.Query("section"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendWorkbook(c, buf, filename)
}

// ExportAttainment CO and PO attainment of a subject
// GET /api/v1/export/attainment/:subject_code
func (h *ExportHandler) ExportAttainment(c *gin.Context) {
	buf, filename, err := h.exportSvc.AttainmentReport(c.Request.Context(), c.Param("subject_code"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendWorkbook(c, buf, filename)
}

// ExportMarks marks sheet of one exam
// GET /api/v1/export/marks?subject_code=&exam_label=
func (h *ExportHandler) ExportMarks(c *gin.Context) {
	subject, exam := c.Query("subject_code"), c.Query("exam_label")
	if subject == "" || exam == "" {
		response.BadRequest(c, 10001, "subject_code and exam_label are required")
		return
	}

	buf, filename, err := h.exportSvc.MarksSheet(c.Request.Context(), subject, exam)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendWorkbook(c, buf, filename)
}

func sendWorkbook(c *gin.Context, buf *bytes.Buffer, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxMime, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoAttendance):
		response.NotFound(c, 24001, "no attendance recorded for this class")
	case errors.Is(err, service.ErrExportNoMarks):
		response.NotFound(c, 24002, "no marks recorded for this exam")
	case errors.Is(err, attainment.ErrNoMarks), errors.Is(err, attainment.ErrNoApprovedPaper):
		handleAttainmentError(c, err)
	default:
		response.InternalError(c)
	}
}
