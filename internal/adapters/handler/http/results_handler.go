package http

import (
	"net/http"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

type ResultsHandler struct {
	service ports.TallyService
}

func NewResultsHandler(service ports.TallyService) *ResultsHandler {
	return &ResultsHandler{
		service: service,
	}
}

// PublishedResults godoc
// @Summary      Final results of a closed election
// @Tags         results
// @Produce      json
// @Success      200 {object} domain.ElectionResults
// @Failure      404,409
// @Router       /api/results/{id} [get]
func (h *ResultsHandler) PublishedResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	results, err := h.service.PublishedResults(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// ComputeResults godoc
// @Summary      Provisional or final results for administrators
// @Tags         results
// @Produce      json
// @Success      200 {object} domain.ElectionResults
// @Failure      404,409
// @Router       /api/admin/elections/{id}/results [get]
func (h *ResultsHandler) ComputeResults(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	results, err := h.service.ComputeResults(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
