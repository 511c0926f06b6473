package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// CoPoHandler CO-PO mapping of a subject
type CoPoHandler struct {
	coPoSvc service.CoPoService
}

// NewCoPoHandler creates a CoPoHandler
func NewCoPoHandler(coPoSvc service.CoPoService) *CoPoHandler {
	return &CoPoHandler{coPoSvc: coPoSvc}
}

// GetCoPo stored matrix
// GET /api/v1/subjects/:subject_code/co-po
func (h *CoPoHandler) GetCoPo(c *gin.Context) {
	res, err := h.coPoSvc.Get(c.Request.Context(), c.Param("subject_code"))
	if err != nil {
		handleCoPoError(c, err)
		return
	}

	response.OK(c, res)
}

// PutCoPo replaces the matrix
// PUT /api/v1/subjects/:subject_code/co-po
func (h *CoPoHandler) PutCoPo(c *gin.Context) {
	var req dto.PutCoPoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	res, err := h.coPoSvc.Put(c.Request.Context(), c.Param("subject_code"), &req, callerID)
	if err != nil {
		handleCoPoError(c, err)
		return
	}

	response.OK(c, res)
}

// DeleteCoPo removes the matrix
// DELETE /api/v1/subjects/:subject_code/co-po
func (h *CoPoHandler) DeleteCoPo(c *gin.Context) {
	if err := h.coPoSvc.Delete(c.Request.Context(), c.Param("subject_code")); err != nil {
		handleCoPoError(c, err)
		return
	}

	response.OK(c, nil)
}

// shared with the spreadsheet import of a matrix
func handleCoPoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCoPoNotFound):
		response.NotFound(c, 18001, "co-po mapping not found")
	case errors.Is(err, service.ErrCoPoInvalid):
		response.BadRequest(c, 18002, err.Error())
	default:
		response.InternalError(c)
	}
}
