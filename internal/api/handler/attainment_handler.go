package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/attainment"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// AttainmentHandler CO/PO attainment
type AttainmentHandler struct {
	attainmentSvc service.AttainmentService
}

// NewAttainmentHandler creates an AttainmentHandler
func NewAttainmentHandler(attainmentSvc service.AttainmentService) *AttainmentHandler {
	return &AttainmentHandler{attainmentSvc: attainmentSvc}
}

// GetAttainment CO levels and PO scores of a subject
// GET /api/v1/attainment/:subject_code
func (h *AttainmentHandler) GetAttainment(c *gin.Context) {
	res, err := h.attainmentSvc.Calculate(c.Request.Context(), c.Param("subject_code"))
	if err != nil {
		handleAttainmentError(c, err)
		return
	}

	response.OK(c, res)
}

func handleAttainmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attainment.ErrNoMarks):
		response.NotFound(c, 20001, "no marks found for this subject")
	case errors.Is(err, attainment.ErrNoApprovedPaper):
		response.Unprocessable(c, 20002, "no approved question paper for this subject")
	default:
		response.InternalError(c)
	}
}
