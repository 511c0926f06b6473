package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/dto"
	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// QuestionPaperHandler question paper drafting and review
type QuestionPaperHandler struct {
	paperSvc service.QuestionPaperService
}

// NewQuestionPaperHandler creates a QuestionPaperHandler
func NewQuestionPaperHandler(paperSvc service.QuestionPaperService) *QuestionPaperHandler {
	return &QuestionPaperHandler{paperSvc: paperSvc}
}

// ListPapers papers of a subject, optionally filtered by status
// GET /api/v1/subjects/:subject_code/papers
func (h *QuestionPaperHandler) ListPapers(c *gin.Context) {
	var req dto.PaperListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	papers, err := h.paperSvc.ListBySubject(c.Request.Context(), c.Param("subject_code"), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": papers})
}

// GetPaperByExam the paper of one exam
// GET /api/v1/subjects/:subject_code/papers/:exam_label
func (h *QuestionPaperHandler) GetPaperByExam(c *gin.Context) {
	paper, err := h.paperSvc.GetBySubjectExam(c.Request.Context(), c.Param("subject_code"), c.Param("exam_label"))
	if err != nil {
		h.handlePaperError(c, err)
		return
	}

	response.OK(c, paper)
}

// GetPaper paper detail
// GET /api/v1/papers/:id
func (h *QuestionPaperHandler) GetPaper(c *gin.Context) {
	paper, err := h.paperSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handlePaperError(c, err)
		return
	}

	response.OK(c, paper)
}

// CreatePaper drafts a paper
// POST /api/v1/papers
func (h *QuestionPaperHandler) CreatePaper(c *gin.Context) {
	var req dto.CreatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	paper, err := h.paperSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handlePaperError(c, err)
		return
	}

	response.Created(c, paper)
}

// UpdatePaper replaces the questions of a draft
// PUT /api/v1/papers/:id
func (h *QuestionPaperHandler) UpdatePaper(c *gin.Context) {
	var req dto.UpdatePaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	paper, err := h.paperSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handlePaperError(c, err)
		return
	}

	response.OK(c, paper)
}

// SubmitPaper draft → submitted
// POST /api/v1/papers/:id/submit
func (h *QuestionPaperHandler) SubmitPaper(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	paper, err := h.paperSvc.Submit(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handlePaperError(c, err)
		return
	}

	response.OK(c, paper)
}

// ApprovePaper submitted → approved
// POST /api/v1/papers/:id/approve
func (h *QuestionPaperHandler) ApprovePaper(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	paper, err := h.paperSvc.Approve(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handlePaperError(c, err)
		return
	}

	response.OK(c, paper)
}

// DeletePaper deletes a draft
// DELETE /api/v1/papers/:id
func (h *QuestionPaperHandler) DeletePaper(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.paperSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handlePaperError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *QuestionPaperHandler) handlePaperError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPaperNotFound):
		response.NotFound(c, 16001, "question paper not found")
	case errors.Is(err, service.ErrPaperExists):
		response.Conflict(c, 16002, "a question paper already exists for this subject and exam")
	case errors.Is(err, service.ErrPaperInvalid):
		response.BadRequest(c, 16003, err.Error())
	case errors.Is(err, service.ErrPaperTransitionInvalid):
		response.Conflict(c, 16004, "question paper status does not allow this operation")
	case errors.Is(err, service.ErrPaperVersionConflict):
		response.Conflict(c, 16005, "question paper was modified concurrently, reload and retry")
	default:
		response.InternalError(c)
	}
}
