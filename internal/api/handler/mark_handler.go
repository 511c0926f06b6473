package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// MarkHandler internal assessment marks
type MarkHandler struct {
	markSvc service.MarkService
}

// NewMarkHandler creates a MarkHandler
func NewMarkHandler(markSvc service.MarkService) *MarkHandler {
	return &MarkHandler{markSvc: markSvc}
}

// UpsertMark writes one student's scores for an exam
// POST /api/v1/marks
func (h *MarkHandler) UpsertMark(c *gin.Context) {
	var req dto.UpsertMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	mark, err := h.markSvc.Upsert(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, mark)
}

// BulkUpsertMarks writes a whole class, all or nothing
// POST /api/v1/marks/bulk
func (h *MarkHandler) BulkUpsertMarks(c *gin.Context) {
	var req dto.BulkUpsertMarksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	marks, err := h.markSvc.BulkUpsert(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, gin.H{"list": marks})
}

// ListSubjectMarks marks of a subject, optionally one exam
// GET /api/v1/subjects/:subject_code/marks
func (h *MarkHandler) ListSubjectMarks(c *gin.Context) {
	var req dto.MarkListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	marks, err := h.markSvc.ListBySubject(c.Request.Context(), c.Param("subject_code"), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": marks})
}

// ListStudentMarks marks of one student; students get their own
// GET /api/v1/marks/student?student_id=
func (h *MarkHandler) ListStudentMarks(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	marks, err := h.markSvc.ListByStudent(c.Request.Context(), caller, c.Query("student_id"))
	if err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, gin.H{"list": marks})
}

// DeleteMark deletes a mark record
// DELETE /api/v1/marks/:record_id
func (h *MarkHandler) DeleteMark(c *gin.Context) {
	if err := h.markSvc.Delete(c.Request.Context(), c.Param("record_id")); err != nil {
		h.handleMarkError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *MarkHandler) handleMarkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMarkNotFound):
		response.NotFound(c, 17001, "mark record not found")
	case errors.Is(err, service.ErrMarkUnknownQuestion):
		response.BadRequest(c, 17002, err.Error())
	case errors.Is(err, service.ErrMarkScoreOutOfRange):
		response.BadRequest(c, 17003, err.Error())
	case errors.Is(err, service.ErrMarkDuplicate):
		response.BadRequest(c, 17004, err.Error())
	case errors.Is(err, service.ErrMarkEmpty):
		response.BadRequest(c, 17005, "no scores given")
	case errors.Is(err, service.ErrMarkDuplicateQuestion):
		response.BadRequest(c, 17007, err.Error())
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 13001, err.Error())
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "no permission for this operation")
	default:
		response.InternalError(c)
	}
}
