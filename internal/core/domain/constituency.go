package domain

import (
	"time"

	"github.com/google/uuid"
)

type Constituency struct {
	ID          uuid.UUID   `json:"id"`
	ElectionID  uuid.UUID   `json:"election_id"`
	Name        string      `json:"name"`
	DistrictIDs []uuid.UUID `json:"district_ids"`
	Candidacies []Candidacy `json:"candidacies,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (c *Constituency) HasDistrict(districtID uuid.UUID) bool {
	for _, id := range c.DistrictIDs {
		if id == districtID {
			return true
		}
	}
	return false
}
