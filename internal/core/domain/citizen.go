package domain

import (
	"time"

	"github.com/google/uuid"
)

// Citizen is a registered voter. NID is the national identity number used to log in.
type Citizen struct {
	ID         uuid.UUID  `json:"id"`
	NID        string     `json:"nid"`
	Name       string     `json:"name"`
	DistrictID uuid.UUID  `json:"district_id"`
	PartyID    *uuid.UUID `json:"party_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
