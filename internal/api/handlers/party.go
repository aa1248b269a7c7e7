package handlers

import (
	"net/http"

	"election-service/internal/models"
	"election-service/internal/services"
	"election-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type PartyHandler struct {
	partyService *services.PartyService
}

func NewPartyHandler(partyService *services.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// ListParties godoc
// @Summary List parties
// @Tags parties
// @Produce json
// @Success 200 {array} models.Party
// @Router /parties [get]
func (h *PartyHandler) ListParties(c *gin.Context) {
	parties, err := h.partyService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if parties == nil {
		parties = []models.Party{}
	}
	c.JSON(http.StatusOK, parties)
}

// CreateParty godoc
// @Summary Create a party
// @Tags parties
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Party name"
// @Param level formData string true "National or Local"
// @Param logo formData file false "Party logo"
// @Success 201 {object} models.Party
// @Failure 400 {object} models.ErrorResponse "Invalid input or duplicate name"
// @Router /parties [post]
func (h *PartyHandler) CreateParty(c *gin.Context) {
	var form models.PartyForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}
	logo, err := optionalFile(c, "logo")
	if err != nil {
		bindError(c, err)
		return
	}

	party, err := h.partyService.Create(c.Request.Context(), &form, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, party)
}

// UpdateParty godoc
// @Summary Update a party
// @Description Empty fields are left unchanged. A new logo replaces the stored one.
// @Tags parties
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Party ID"
// @Param name formData string false "Party name"
// @Param level formData string false "National or Local"
// @Param logo formData file false "Party logo"
// @Success 200 {object} models.Party
// @Failure 400 {object} models.ErrorResponse "Invalid input or duplicate name"
// @Failure 404 {object} models.ErrorResponse "Party not found"
// @Router /parties/{id} [put]
func (h *PartyHandler) UpdateParty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var form models.PartyForm
	if err := c.ShouldBind(&form); err != nil {
		bindError(c, err)
		return
	}
	logo, err := optionalFile(c, "logo")
	if err != nil {
		bindError(c, err)
		return
	}

	party, err := h.partyService.Update(c.Request.Context(), id, &form, logo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, party)
}

// DeleteParty godoc
// @Summary Delete a party
// @Tags parties
// @Produce json
// @Security BearerAuth
// @Param id path int true "Party ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse "Party not found"
// @Router /parties/{id} [delete]
func (h *PartyHandler) DeleteParty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.partyService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, "Party removed")
}
