package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type RegistryHandler struct {
	service ports.RegistryService
}

func NewRegistryHandler(service ports.RegistryService) *RegistryHandler {
	return &RegistryHandler{
		service: service,
	}
}

type constituencyRequest struct {
	Name string `json:"name"`
}

type districtsRequest struct {
	DistrictIDs []uuid.UUID `json:"district_ids"`
}

// ListDistricts godoc
// @Summary      Lists every district
// @Tags         registry
// @Produce      json
// @Success      200 {array} domain.District
// @Router       /api/districts [get]
func (h *RegistryHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := h.service.ListDistricts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(districts))
}

// UnassignedDistricts godoc
// @Summary      Lists districts not yet assigned in an election
// @Tags         registry
// @Produce      json
// @Success      200 {array} domain.District
// @Failure      404
// @Router       /api/admin/elections/{id}/districts/unassigned [get]
func (h *RegistryHandler) UnassignedDistricts(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	districts, err := h.service.UnassignedDistricts(r.Context(), electionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(districts))
}

// ListConstituencies godoc
// @Summary      Lists the constituencies of an election
// @Tags         registry
// @Produce      json
// @Success      200 {array} domain.Constituency
// @Router       /api/admin/elections/{id}/constituencies [get]
func (h *RegistryHandler) ListConstituencies(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	constituencies, err := h.service.ListConstituencies(r.Context(), electionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(constituencies))
}

// AddConstituency godoc
// @Summary      Adds a constituency to a draft election
// @Tags         registry
// @Accept       json
// @Produce      json
// @Success      201 {object} domain.Constituency
// @Failure      400,404,409
// @Router       /api/admin/elections/{id}/constituencies [post]
func (h *RegistryHandler) AddConstituency(w http.ResponseWriter, r *http.Request) {
	electionID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req constituencyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	constituency, err := h.service.AddConstituency(r.Context(), electionID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, constituency)
}

// RenameConstituency godoc
// @Summary      Renames a constituency of a draft election
// @Tags         registry
// @Accept       json
// @Produce      json
// @Success      200 {object} domain.Constituency
// @Failure      400,404,409
// @Router       /api/admin/elections/{id}/constituencies/{cid} [put]
func (h *RegistryHandler) RenameConstituency(w http.ResponseWriter, r *http.Request) {
	electionID, constituencyID, err := constituencyPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req constituencyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	constituency, err := h.service.RenameConstituency(r.Context(), electionID, constituencyID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, constituency)
}

// RemoveConstituency godoc
// @Summary      Removes a constituency and its candidacies from a draft election
// @Tags         registry
// @Success      204
// @Failure      404,409
// @Router       /api/admin/elections/{id}/constituencies/{cid} [delete]
func (h *RegistryHandler) RemoveConstituency(w http.ResponseWriter, r *http.Request) {
	electionID, constituencyID, err := constituencyPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.RemoveConstituency(r.Context(), electionID, constituencyID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignDistricts godoc
// @Summary      Assigns districts to a constituency
// @Description  All-or-nothing. Fails with 409 when a district already belongs to another constituency of the election.
// @Tags         registry
// @Accept       json
// @Success      204
// @Failure      400,404,409
// @Router       /api/admin/elections/{id}/constituencies/{cid}/districts [post]
func (h *RegistryHandler) AssignDistricts(w http.ResponseWriter, r *http.Request) {
	h.changeDistricts(w, r, h.service.AssignDistricts)
}

// UnassignDistricts godoc
// @Summary      Removes districts from a constituency
// @Tags         registry
// @Accept       json
// @Success      204
// @Failure      400,404,409
// @Router       /api/admin/elections/{id}/constituencies/{cid}/districts [delete]
func (h *RegistryHandler) UnassignDistricts(w http.ResponseWriter, r *http.Request) {
	h.changeDistricts(w, r, h.service.UnassignDistricts)
}

func (h *RegistryHandler) changeDistricts(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error) {
	electionID, constituencyID, err := constituencyPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req districtsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := change(r.Context(), electionID, constituencyID, req.DistrictIDs); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func constituencyPath(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	electionID, err := pathUUID(r, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	constituencyID, err := pathUUID(r, "cid")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return electionID, constituencyID, nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
