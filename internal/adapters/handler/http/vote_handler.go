package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	PartyID uuid.UUID `json:"party_id"`
}

// OpenElections godoc
// @Summary      Lists elections currently accepting votes
// @Tags         voting
// @Produce      json
// @Success      200 {array} domain.Election
// @Failure      401
// @Router       /api/voting/elections [get]
func (h *VoteHandler) OpenElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.service.OpenElections(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(elections))
}

// Ballot godoc
// @Summary      Returns the voter's ballot for an election
// @Tags         voting
// @Produce      json
// @Success      200 {object} ports.Ballot
// @Failure      401,404,409
// @Router       /api/voting/elections/{id}/ballot [get]
func (h *VoteHandler) Ballot(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	citizenID, ok := voterFrom(r)
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}

	ballot, err := h.service.Ballot(r.Context(), electionID, citizenID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ballot)
}

// CastVote godoc
// @Summary      Casts the voter's single vote in an election
// @Tags         voting
// @Accept       json
// @Success      201
// @Failure      400,401,404,409
// @Router       /api/voting/elections/{id}/votes [post]
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	citizenID, ok := voterFrom(r)
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}

	var req voteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	err = h.service.CastVote(r.Context(), ports.CastVoteInput{
		ElectionID: electionID,
		CitizenID:  citizenID,
		PartyID:    req.PartyID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func voterFrom(r *http.Request) (uuid.UUID, bool) {
	claims, ok := SessionFrom(r.Context())
	if !ok || claims.Role != domain.RoleVoter || claims.CitizenID == uuid.Nil {
		return uuid.Nil, false
	}
	return claims.CitizenID, true
}
