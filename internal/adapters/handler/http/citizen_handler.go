package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type CitizenHandler struct {
	service ports.CitizenService
}

func NewCitizenHandler(service ports.CitizenService) *CitizenHandler {
	return &CitizenHandler{
		service: service,
	}
}

type citizenRequest struct {
	NID        string    `json:"nid"`
	Name       string    `json:"name"`
	DistrictID uuid.UUID `json:"district_id"`
	FaceImage  string    `json:"face_image"`
}

// RegisterCitizen godoc
// @Summary      Registers a citizen with a reference face image
// @Tags         citizens
// @Accept       json
// @Produce      json
// @Success      201 {object} domain.Citizen
// @Failure      400,404,409
// @Router       /api/admin/citizens [post]
func (h *CitizenHandler) RegisterCitizen(w http.ResponseWriter, r *http.Request) {
	var req citizenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var image []byte
	if req.FaceImage != "" {
		decoded, err := decodeImage(req.FaceImage)
		if err != nil {
			writeError(w, r, err)
			return
		}
		image = decoded
	}

	citizen, err := h.service.Register(r.Context(), ports.RegisterCitizenInput{
		NID:        req.NID,
		Name:       req.Name,
		DistrictID: req.DistrictID,
		FaceImage:  image,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, citizen)
}

// GetCitizen godoc
// @Summary      Gets a citizen
// @Tags         citizens
// @Produce      json
// @Success      200 {object} domain.Citizen
// @Failure      404
// @Router       /api/admin/citizens/{id} [get]
func (h *CitizenHandler) GetCitizen(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	citizen, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, citizen)
}

// ListCitizens godoc
// @Summary      Lists citizens by name
// @Tags         citizens
// @Produce      json
// @Success      200 {array} domain.Citizen
// @Router       /api/admin/citizens [get]
func (h *CitizenHandler) ListCitizens(w http.ResponseWriter, r *http.Request) {
	citizens, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(citizens))
}

// ListUnaffiliated godoc
// @Summary      Lists citizens that belong to no party
// @Tags         citizens
// @Produce      json
// @Success      200 {array} domain.Citizen
// @Router       /api/admin/citizens/unaffiliated [get]
func (h *CitizenHandler) ListUnaffiliated(w http.ResponseWriter, r *http.Request) {
	citizens, err := h.service.ListUnaffiliated(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(citizens))
}
