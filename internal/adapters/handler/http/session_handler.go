package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type SessionHandler struct {
	citizens ports.CitizenService
}

func NewSessionHandler(citizens ports.CitizenService) *SessionHandler {
	return &SessionHandler{
		citizens: citizens,
	}
}

type sessionResponse struct {
	Subject uuid.UUID       `json:"subject"`
	Role    domain.Role     `json:"role"`
	Citizen *domain.Citizen `json:"citizen,omitempty"`
}

// GetMe godoc
// @Summary      Describes the current session
// @Tags         auth
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /api/me [get]
func (h *SessionHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := SessionFrom(r.Context())
	if !ok {
		writeError(w, r, domain.ErrUnauthorized)
		return
	}

	resp := sessionResponse{Subject: claims.Subject, Role: claims.Role}
	if claims.Role == domain.RoleVoter {
		citizen, err := h.citizens.Get(r.Context(), claims.CitizenID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		resp.Citizen = citizen
	}
	writeJSON(w, http.StatusOK, resp)
}
