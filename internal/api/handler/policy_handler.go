package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// PolicyHandler attendance and activity thresholds
type PolicyHandler struct {
	policySvc service.PolicyService
}

// NewPolicyHandler creates a PolicyHandler
func NewPolicyHandler(policySvc service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policySvc: policySvc}
}

// GetPolicy thresholds in force
// GET /api/v1/policy
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	res, err := h.policySvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, res)
}

// UpdatePolicy partial update
// PUT /api/v1/policy
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	var req dto.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.policySvc.Update(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrPolicyThresholdsInverted) {
			response.BadRequest(c, 19101, "condonation percent must not exceed safe percent")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, res)
}
