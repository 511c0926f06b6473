package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// AcademicTermHandler academic term module
type AcademicTermHandler struct {
	termSvc service.AcademicTermService
}

// NewAcademicTermHandler creates an AcademicTermHandler
func NewAcademicTermHandler(termSvc service.AcademicTermService) *AcademicTermHandler {
	return &AcademicTermHandler{termSvc: termSvc}
}

// ListTerms all terms, newest first
// GET /api/v1/terms
func (h *AcademicTermHandler) ListTerms(c *gin.Context) {
	terms, err := h.termSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": terms})
}

// GetCurrentTerm the active term
// GET /api/v1/terms/current
func (h *AcademicTermHandler) GetCurrentTerm(c *gin.Context) {
	term, err := h.termSvc.GetCurrent(c.Request.Context())
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, term)
}

// GetTerm term detail
// GET /api/v1/terms/:id
func (h *AcademicTermHandler) GetTerm(c *gin.Context) {
	term, err := h.termSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, term)
}

// CreateTerm creates a term
// POST /api/v1/terms
func (h *AcademicTermHandler) CreateTerm(c *gin.Context) {
	var req dto.CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	term, err := h.termSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.Created(c, term)
}

// UpdateTerm partial update
// PUT /api/v1/terms/:id
func (h *AcademicTermHandler) UpdateTerm(c *gin.Context) {
	var req dto.UpdateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	term, err := h.termSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, term)
}

// ActivateTerm makes the term the only active one
// PUT /api/v1/terms/:id/activate
func (h *AcademicTermHandler) ActivateTerm(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.termSvc.Activate(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, nil)
}

// DeleteTerm deletes an inactive term
// DELETE /api/v1/terms/:id
func (h *AcademicTermHandler) DeleteTerm(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.termSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *AcademicTermHandler) handleTermError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTermNotFound):
		response.NotFound(c, 14001, "academic term not found")
	case errors.Is(err, service.ErrNoActiveTerm):
		response.NotFound(c, 14002, "no active academic term")
	case errors.Is(err, service.ErrTermDateInvalid), errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 14003, err.Error())
	case errors.Is(err, service.ErrTermActive):
		response.Conflict(c, 14004, "the active term cannot be deleted or archived")
	default:
		response.InternalError(c)
	}
}
