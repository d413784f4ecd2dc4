package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type CandidacyHandler struct {
	service ports.CandidacyService
}

func NewCandidacyHandler(service ports.CandidacyService) *CandidacyHandler {
	return &CandidacyHandler{
		service: service,
	}
}

type candidacyRequest struct {
	PartyID   uuid.UUID `json:"party_id"`
	CitizenID uuid.UUID `json:"citizen_id"`
}

// AddCandidacy godoc
// @Summary      Nominates a party member in a constituency
// @Tags         candidacies
// @Accept       json
// @Produce      json
// @Success      201 {object} domain.Candidacy
// @Failure      400,404,409
// @Router       /api/admin/elections/{id}/constituencies/{cid}/candidacies [post]
func (h *CandidacyHandler) AddCandidacy(w http.ResponseWriter, r *http.Request) {
	electionID, constituencyID, err := constituencyPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req candidacyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	candidacy, err := h.service.AddCandidacy(r.Context(), ports.AddCandidacyInput{
		ElectionID:     electionID,
		ConstituencyID: constituencyID,
		PartyID:        req.PartyID,
		CitizenID:      req.CitizenID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, candidacy)
}

// RemoveCandidacy godoc
// @Summary      Withdraws a party from a constituency
// @Tags         candidacies
// @Success      204
// @Failure      404,409
// @Router       /api/admin/elections/{id}/constituencies/{cid}/candidacies/{pid} [delete]
func (h *CandidacyHandler) RemoveCandidacy(w http.ResponseWriter, r *http.Request) {
	electionID, constituencyID, err := constituencyPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	partyID, err := pathUUID(r, "pid")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.RemoveCandidacy(r.Context(), electionID, constituencyID, partyID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCandidates godoc
// @Summary      Lists candidacies of a constituency in nomination order
// @Tags         candidacies
// @Produce      json
// @Success      200 {array} domain.Candidacy
// @Failure      404
// @Router       /api/admin/elections/{id}/constituencies/{cid}/candidacies [get]
func (h *CandidacyHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, constituencyID, err := constituencyPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	candidacies, err := h.service.ListCandidates(r.Context(), electionID, constituencyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(candidacies))
}

// AvailableParties godoc
// @Summary      Lists parties not yet contesting a constituency
// @Tags         candidacies
// @Produce      json
// @Success      200 {array} domain.Party
// @Failure      404
// @Router       /api/admin/elections/{id}/constituencies/{cid}/available-parties [get]
func (h *CandidacyHandler) AvailableParties(w http.ResponseWriter, r *http.Request) {
	electionID, constituencyID, err := constituencyPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	parties, err := h.service.AvailableParties(r.Context(), electionID, constituencyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(parties))
}
