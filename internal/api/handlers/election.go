package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"election-service/internal/api/middleware"
	"election-service/internal/models"
	"election-service/internal/services"
	"election-service/internal/websocket"
	"election-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
)

type ElectionHandler struct {
	electionService *services.ElectionService
	voteService     *services.VoteService
	hub             *websocket.Hub
}

func NewElectionHandler(electionService *services.ElectionService, voteService *services.VoteService, hub *websocket.Hub) *ElectionHandler {
	return &ElectionHandler{
		electionService: electionService,
		voteService:     voteService,
		hub:             hub,
	}
}

// ListElections godoc
// @Summary List elections
// @Description All elections with their candidates and parties, newest start date first
// @Tags elections
// @Produce json
// @Success 200 {array} models.Election
// @Router /elections [get]
func (h *ElectionHandler) ListElections(c *gin.Context) {
	elections, err := h.electionService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if elections == nil {
		elections = []models.Election{}
	}
	c.JSON(http.StatusOK, elections)
}

// GetElection godoc
// @Summary Get an election
// @Tags elections
// @Produce json
// @Param id path int true "Election ID"
// @Success 200 {object} models.Election
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Router /elections/{id} [get]
func (h *ElectionHandler) GetElection(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	election, err := h.electionService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// CreateElection godoc
// @Summary Create an election
// @Tags elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateElectionRequest true "Election data"
// @Success 201 {object} models.Election
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 403 {object} models.ErrorResponse "Forbidden"
// @Router /elections [post]
func (h *ElectionHandler) CreateElection(c *gin.Context) {
	var req models.CreateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	election, err := h.electionService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, election)
}

// UpdateElection godoc
// @Summary Update an election
// @Tags elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param request body models.UpdateElectionRequest true "Fields to change"
// @Success 200 {object} models.Election
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Router /elections/{id} [put]
func (h *ElectionHandler) UpdateElection(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateElectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	election, err := h.electionService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// DeleteElection godoc
// @Summary Delete an election with its candidates and votes
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Router /elections/{id} [delete]
func (h *ElectionHandler) DeleteElection(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.electionService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, "Election removed")
}

// CastVote godoc
// @Summary Cast a vote
// @Description Voters and candidates may vote once per election while it is open
// @Tags elections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param request body models.CastVoteRequest true "Chosen candidate"
// @Success 201 {object} models.MessageResponse "Vote cast successfully"
// @Failure 400 {object} models.ErrorResponse "Election not active, voting ended, already voted or unknown candidate"
// @Failure 403 {object} models.ErrorResponse "This account role cannot vote"
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Router /elections/{id}/vote [post]
func (h *ElectionHandler) CastVote(c *gin.Context) {
	electionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	_, err := h.voteService.CastVote(c.Request.Context(), electionID, req.CandidateID,
		middleware.CurrentUserID(c), middleware.CurrentRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.MessageResponse{Message: "Vote cast successfully"})
}

// DeclareResults godoc
// @Summary Declare results
// @Description Closes voting and makes public results available
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} models.Election
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Router /elections/{id}/declare-results [put]
func (h *ElectionHandler) DeclareResults(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	election, err := h.electionService.DeclareResults(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// RevokeResults godoc
// @Summary Revoke declared results
// @Tags elections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} models.Election
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Router /elections/{id}/revoke-results [put]
func (h *ElectionHandler) RevokeResults(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	election, err := h.electionService.RevokeResults(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, election)
}

// AdminResults godoc
// @Summary Full results with voter list
// @Description Admin only, available before declaration. Use format=csv to download the voter list.
// @Tags results
// @Produce json,text/csv
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param format query string false "csv for a CSV export of the voters"
// @Success 200 {object} models.AdminResults
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Router /elections/results/{id}/admin [get]
func (h *ElectionHandler) AdminResults(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	results, err := h.voteService.AdminResults(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		h.writeVotersCSV(c, id, results.Voters)
		return
	}
	if results.Voters == nil {
		results.Voters = []models.VoterRecord{}
	}
	c.JSON(http.StatusOK, results)
}

func (h *ElectionHandler) writeVotersCSV(c *gin.Context, electionID uint, voters []models.VoterRecord) {
	if voters == nil {
		voters = []models.VoterRecord{}
	}
	body, err := gocsv.MarshalBytes(&voters)
	if err != nil {
		respondError(c, fmt.Errorf("failed to encode voters: %w", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="election-%d-voters.csv"`, electionID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// VoterResults godoc
// @Summary Declared results
// @Description Counts per candidate without voter identities. Only available once results are declared.
// @Tags results
// @Produce json
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Success 200 {object} models.PublicResults
// @Failure 400 {object} models.ErrorResponse "Results have not been declared"
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Router /elections/results/{id}/voter [get]
func (h *ElectionHandler) VoterResults(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	results, err := h.voteService.PublicResults(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// LiveResults godoc
// @Summary Live tally feed
// @Description Admin only websocket. Sends the current tally on connect, then again after every vote. Browsers pass the JWT as the token query parameter.
// @Tags results
// @Security BearerAuth
// @Param id path int true "Election ID"
// @Param token query string false "JWT when the Authorization header cannot be set"
// @Success 101 {string} string "Switching Protocols"
// @Failure 404 {object} models.ErrorResponse "Election not found"
// @Router /elections/{id}/live [get]
func (h *ElectionHandler) LiveResults(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	snapshot, err := h.voteService.LiveResults(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.hub.Serve(c.Writer, c.Request, id, middleware.CurrentUserID(c), snapshot); err != nil {
		// the upgrader has already answered the client
		slog.Warn("Live feed upgrade failed", "electionID", id, "error", err)
	}
}
