package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is an accepted ballot. VoterKey identifies the voter within one election
// without naming the citizen.
type Vote struct {
	ID             uuid.UUID `json:"id"`
	ElectionID     uuid.UUID `json:"election_id"`
	VoterKey       string    `json:"-"`
	ConstituencyID uuid.UUID `json:"constituency_id"`
	PartyID        uuid.UUID `json:"party_id"`
	CastAt         time.Time `json:"cast_at"`
}
