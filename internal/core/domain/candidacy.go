package domain

import (
	"time"

	"github.com/google/uuid"
)

// Candidacy is a party fielding one of its members in a constituency of an election.
// Position records insertion order within the constituency.
type Candidacy struct {
	ElectionID     uuid.UUID `json:"election_id"`
	ConstituencyID uuid.UUID `json:"constituency_id"`
	PartyID        uuid.UUID `json:"party_id"`
	CitizenID      uuid.UUID `json:"citizen_id"`
	Position       int       `json:"position"`
	CreatedAt      time.Time `json:"created_at"`
}
