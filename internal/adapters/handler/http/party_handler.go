package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type PartyHandler struct {
	service ports.PartyService
}

func NewPartyHandler(service ports.PartyService) *PartyHandler {
	return &PartyHandler{
		service: service,
	}
}

type partyRequest struct {
	Name        string    `json:"name"`
	LogoURL     string    `json:"logo_url"`
	PresidentID uuid.UUID `json:"president_id"`
}

type memberRequest struct {
	CitizenID uuid.UUID `json:"citizen_id"`
}

// CreateParty godoc
// @Summary      Registers a party and enrolls its president
// @Tags         parties
// @Accept       json
// @Produce      json
// @Success      201 {object} domain.Party
// @Failure      400,404,409
// @Router       /api/admin/parties [post]
func (h *PartyHandler) CreateParty(w http.ResponseWriter, r *http.Request) {
	var req partyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	party, err := h.service.Create(r.Context(), ports.CreatePartyInput{
		Name:        req.Name,
		LogoURL:     req.LogoURL,
		PresidentID: req.PresidentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, party)
}

// ListParties godoc
// @Summary      Lists parties by name
// @Tags         parties
// @Produce      json
// @Success      200 {array} domain.Party
// @Router       /api/admin/parties [get]
func (h *PartyHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(parties))
}

// GetParty godoc
// @Summary      Gets a party
// @Tags         parties
// @Produce      json
// @Success      200 {object} domain.Party
// @Failure      404
// @Router       /api/admin/parties/{id} [get]
func (h *PartyHandler) GetParty(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	party, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, party)
}

// UpdateParty godoc
// @Summary      Renames a party or replaces its logo
// @Tags         parties
// @Accept       json
// @Produce      json
// @Success      200 {object} domain.Party
// @Failure      400,404,409
// @Router       /api/admin/parties/{id} [put]
func (h *PartyHandler) UpdateParty(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req partyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	party, err := h.service.Update(r.Context(), id, ports.UpdatePartyInput{
		Name:    req.Name,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, party)
}

// AddMember godoc
// @Summary      Enrolls a citizen in a party
// @Tags         parties
// @Accept       json
// @Success      204
// @Failure      400,404,409
// @Router       /api/admin/parties/{id}/members [post]
func (h *PartyHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req memberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.AddMember(r.Context(), id, req.CitizenID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
