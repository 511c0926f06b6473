package handler

import (
	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// ActivityHandler activity point claims
type ActivityHandler struct {
	activitySvc service.ActivityService
}

// NewActivityHandler creates an ActivityHandler
func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// CreateActivity submits a certificate claim
// POST /api/v1/activities
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req dto.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	res, err := h.activitySvc.Create(c.Request.Context(), caller, &req)
	if err != nil {
		handleReviewError(c, err)
		return
	}

	response.Created(c, res)
}

// ActivitySummary approved points against the requirement
// GET /api/v1/activities/summary?student_id=
func (h *ActivityHandler) ActivitySummary(c *gin.Context) {
	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	res, err := h.activitySvc.Summary(c.Request.Context(), caller, c.Query("student_id"))
	if err != nil {
		handleReviewError(c, err)
		return
	}

	response.OK(c, res)
}

// ListActivities admin review queue
// GET /api/v1/activities
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	var req dto.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	list, total, err := h.activitySvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// ReviewActivity approves or rejects a pending claim
// PUT /api/v1/activities/:id/review
func (h *ActivityHandler) ReviewActivity(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.activitySvc.Review(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		handleReviewError(c, err)
		return
	}

	response.OK(c, res)
}
