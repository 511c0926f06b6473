package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// CondonationHandler attendance condonation requests
type CondonationHandler struct {
	condonationSvc service.CondonationService
}

// NewCondonationHandler creates a CondonationHandler
func NewCondonationHandler(condonationSvc service.CondonationService) *CondonationHandler {
	return &CondonationHandler{condonationSvc: condonationSvc}
}

// CreateCondonation submits a request for a subject below the safe percentage
// POST /api/v1/condonations
func (h *CondonationHandler) CreateCondonation(c *gin.Context) {
	var req dto.CreateCondonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	res, err := h.condonationSvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		handleReviewError(c, err)
		return
	}

	response.Created(c, res)
}

// ListMyCondonations requests of one student; students get their own
// GET /api/v1/condonations/mine?student_id=
func (h *CondonationHandler) ListMyCondonations(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.condonationSvc.ListMine(c.Request.Context(), caller, c.Query("student_id"))
	if err != nil {
		handleReviewError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListCondonations admin review queue
// GET /api/v1/condonations
func (h *CondonationHandler) ListCondonations(c *gin.Context) {
	var req dto.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	list, total, err := h.condonationSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ReviewCondonation approves or rejects a pending request
// PUT /api/v1/condonations/:id/review
func (h *CondonationHandler) ReviewCondonation(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.condonationSvc.Review(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleReviewError(c, err)
		return
	}

	response.OK(c, res)
}

// handleReviewError covers condonation requests and activity claims
func handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCondonationNotFound):
		response.NotFound(c, 21001, "condonation request not found")
	case errors.Is(err, service.ErrCondonationNotNeeded):
		response.Unprocessable(c, 21002, "attendance is not below the safe percentage")
	case errors.Is(err, service.ErrCondonationPending):
		response.Conflict(c, 21003, "a pending condonation request already exists for this subject")
	case errors.Is(err, service.ErrCondonationNotPending):
		response.Conflict(c, 21004, "only pending requests can be reviewed")
	case errors.Is(err, service.ErrActivityNotFound):
		response.NotFound(c, 21101, "activity claim not found")
	case errors.Is(err, service.ErrActivityNotPending):
		response.Conflict(c, 21102, "only pending claims can be reviewed")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 13001, "student not found")
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "no permission for this operation")
	default:
		response.InternalError(c)
	}
}
