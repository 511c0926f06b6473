package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/ingest"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// ImportHandler spreadsheet uploads (csv or xlsx, form field "file")
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler creates an ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// ImportStudents upserts students by roll number
// POST /api/v1/import/students
func (h *ImportHandler) ImportStudents(c *gin.Context) {
	file, header, callerID, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importSvc.ImportStudents(c.Request.Context(), header.Filename, file, callerID)
	if err != nil {
		handleImportError(c, err, result)
		return
	}

	response.OK(c, result)
}

// ImportCourses upserts the course list
// POST /api/v1/import/courses
func (h *ImportHandler) ImportCourses(c *gin.Context) {
	file, header, callerID, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importSvc.ImportCourses(c.Request.Context(), header.Filename, file, callerID)
	if err != nil {
		handleImportError(c, err, result)
		return
	}

	response.OK(c, result)
}

// ImportCoPo replaces a subject's matrix
// POST /api/v1/import/co-po/:subject_code
func (h *ImportHandler) ImportCoPo(c *gin.Context) {
	file, header, callerID, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	res, err := h.importSvc.ImportCoPo(c.Request.Context(), c.Param("subject_code"), header.Filename, file, callerID)
	if err != nil {
		handleImportError(c, err, nil)
		return
	}

	response.OK(c, res)
}

// ImportMarks writes an exam's marks for a class, all or nothing
// POST /api/v1/import/marks/:subject_code/:exam_label
func (h *ImportHandler) ImportMarks(c *gin.Context) {
	file, header, callerID, ok := uploadedFile(c)
	if !ok {
		return
	}
	defer file.Close()

	result, err := h.importSvc.ImportMarks(c.Request.Context(),
		c.Param("subject_code"), c.Param("exam_label"), header.Filename, file, callerID)
	if err != nil {
		handleImportError(c, err, result)
		return
	}

	response.OK(c, result)
}

func uploadedFile(c *gin.Context) (multipart.File, *multipart.FileHeader, string, bool) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return nil, nil, "", false
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 23000, "upload a .csv or .xlsx file in the \"file\" field")
		return nil, nil, "", false
	}
	return file, header, callerID, true
}

// handleImportError maps parse, row and downstream errors; result carries row-level
// failures when the service produced any
func handleImportError(c *gin.Context, err error, result interface{}) {
	var missing *ingest.ErrMissingColumns
	switch {
	case errors.As(err, &missing):
		response.ErrorWithDetails(c, http.StatusBadRequest, 23001, err.Error(), gin.H{"missing": missing.Missing})
	case errors.Is(err, ingest.ErrUnsupportedFormat):
		response.BadRequest(c, 23002, "unsupported file format, expected .csv or .xlsx")
	case errors.Is(err, ingest.ErrNoData):
		response.BadRequest(c, 23003, "file has no data rows")
	case errors.Is(err, ingest.ErrTooManyRows):
		response.Error(c, http.StatusRequestEntityTooLarge, 23004, err.Error())
	case errors.Is(err, ingest.ErrMalformed):
		response.BadRequest(c, 23005, err.Error())
	case errors.Is(err, service.ErrImportNoValidRows):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 23006, "upload has no valid rows", result)
	case errors.Is(err, service.ErrImportRowsInvalid):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 23007, "upload has invalid rows, nothing was written", result)
	case errors.Is(err, service.ErrCoPoInvalid), errors.Is(err, service.ErrCoPoNotFound):
		handleCoPoError(c, err)
	case errors.Is(err, service.ErrMarkUnknownQuestion),
		errors.Is(err, service.ErrMarkScoreOutOfRange),
		errors.Is(err, service.ErrMarkDuplicate),
		errors.Is(err, service.ErrMarkDuplicateQuestion),
		errors.Is(err, service.ErrMarkEmpty):
		response.BadRequest(c, 17006, err.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		response.BadRequest(c, 13001, err.Error())
	case errors.Is(err, service.ErrNoActiveTerm):
		response.Unprocessable(c, 14002, "no active academic term")
	default:
		response.InternalError(c)
	}
}
