package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type ElectionHandler struct {
	service ports.ElectionService
}

func NewElectionHandler(service ports.ElectionService) *ElectionHandler {
	return &ElectionHandler{
		service: service,
	}
}

type electionRequest struct {
	Name           string `json:"name"`
	Date           string `json:"date"`
	TimeLimitHours int    `json:"time_limit_hours"`
}

// parseDate accepts RFC 3339 timestamps or plain dates. An empty string is the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date must be YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}

// CreateElection godoc
// @Summary      Creates a draft election
// @Tags         elections
// @Accept       json
// @Produce      json
// @Success      201 {object} domain.Election
// @Failure      400
// @Router       /api/admin/elections [post]
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req electionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	election, err := h.service.Create(r.Context(), ports.CreateElectionInput{
		Name:           req.Name,
		Date:           date,
		TimeLimitHours: req.TimeLimitHours,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, election)
}

// ListElections godoc
// @Summary      Lists elections, newest first
// @Tags         elections
// @Produce      json
// @Param        state query string false "comma separated states"
// @Success      200 {array} domain.Election
// @Router       /api/admin/elections [get]
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	var states []domain.ElectionState
	if raw := r.URL.Query().Get("state"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			states = append(states, domain.ElectionState(strings.TrimSpace(s)))
		}
	}

	elections, err := h.service.List(r.Context(), states...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if elections == nil {
		elections = []*domain.Election{}
	}
	writeJSON(w, http.StatusOK, nonNil(elections))
}

// GetElection godoc
// @Summary      Gets an election with its constituencies and candidacies
// @Tags         elections
// @Produce      json
// @Success      200 {object} domain.Election
// @Failure      404
// @Router       /api/admin/elections/{id} [get]
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	h.withElection(w, r, h.service.Get)
}

// UpdateElection godoc
// @Summary      Updates the details of a draft or scheduled election
// @Tags         elections
// @Accept       json
// @Produce      json
// @Success      200 {object} domain.Election
// @Failure      400,404,409
// @Router       /api/admin/elections/{id} [put]
func (h *ElectionHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req electionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	election, err := h.service.UpdateDetails(r.Context(), id, ports.UpdateElectionInput{
		Name:           req.Name,
		Date:           date,
		TimeLimitHours: req.TimeLimitHours,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, election)
}

// DeleteElection godoc
// @Summary      Deletes a draft election
// @Tags         elections
// @Success      204
// @Failure      404,409
// @Router       /api/admin/elections/{id} [delete]
func (h *ElectionHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ScheduleElection godoc
// @Summary      Schedules a ready draft election
// @Tags         elections
// @Produce      json
// @Success      200 {object} domain.Election
// @Failure      400,404,409
// @Router       /api/admin/elections/{id}/schedule [post]
func (h *ElectionHandler) ScheduleElection(w http.ResponseWriter, r *http.Request) {
	h.withElection(w, r, h.service.Schedule)
}

// StartElection godoc
// @Summary      Opens voting
// @Tags         elections
// @Produce      json
// @Success      200 {object} domain.Election
// @Failure      400,404,409
// @Router       /api/admin/elections/{id}/start [post]
func (h *ElectionHandler) StartElection(w http.ResponseWriter, r *http.Request) {
	h.withElection(w, r, h.service.Start)
}

// StopElection godoc
// @Summary      Closes voting
// @Tags         elections
// @Produce      json
// @Success      200 {object} domain.Election
// @Failure      404,409
// @Router       /api/admin/elections/{id}/stop [post]
func (h *ElectionHandler) StopElection(w http.ResponseWriter, r *http.Request) {
	h.withElection(w, r, h.service.Stop)
}

func (h *ElectionHandler) withElection(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (*domain.Election, error)) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	election, err := fn(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, election)
}
