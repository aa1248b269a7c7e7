package handlers

import (
	"net/http"

	"election-service/internal/models"
	"election-service/internal/services"
	"election-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	candidateService *services.CandidateService
}

func NewCandidateHandler(candidateService *services.CandidateService) *CandidateHandler {
	return &CandidateHandler{candidateService: candidateService}
}

// AddCandidate godoc
// @Summary Add a candidate to an election
// @Tags candidates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCandidateRequest true "Candidate data"
// @Success 201 {object} models.Candidate
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 404 {object} models.ErrorResponse "Election or party not found"
// @Router /candidates [post]
func (h *CandidateHandler) AddCandidate(c *gin.Context) {
	var req models.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	candidate, err := h.candidateService.Add(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, candidate)
}

// RemoveCandidate godoc
// @Summary Remove a candidate and the votes cast for them
// @Tags candidates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Candidate ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse "Candidate not found"
// @Router /candidates/{id} [delete]
func (h *CandidateHandler) RemoveCandidate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.candidateService.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, "Candidate removed")
}
