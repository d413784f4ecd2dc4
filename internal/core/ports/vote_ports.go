package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type VoteRepository interface {
	// Append stores the vote only while the election is open and its voter key
	// is unused. It is the authoritative one-vote-per-voter guard.
	Append(ctx context.Context, vote *domain.Vote) error
	HasVoted(ctx context.Context, electionID uuid.UUID, voterKey string) (bool, error)
	// ListByElection returns a consistent snapshot of every vote in the election.
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Vote, error)
}

// VoterKeyer derives the per-election voter key stored with a vote.
type VoterKeyer interface {
	VoterKey(electionID, citizenID uuid.UUID) string
}

type CastVoteInput struct {
	ElectionID uuid.UUID
	CitizenID  uuid.UUID
	PartyID    uuid.UUID
}

type BallotEntry struct {
	PartyID   uuid.UUID `json:"party_id"`
	PartyName string    `json:"party_name"`
	LogoURL   string    `json:"logo_url,omitempty"`
	CitizenID uuid.UUID `json:"citizen_id"`
	Candidate string    `json:"candidate"`
}

type Ballot struct {
	ElectionID     uuid.UUID     `json:"election_id"`
	ConstituencyID uuid.UUID     `json:"constituency_id"`
	Constituency   string        `json:"constituency"`
	Entries        []BallotEntry `json:"entries"`
	HasVoted       bool          `json:"has_voted"`
}

type VoteService interface {
	CastVote(ctx context.Context, input CastVoteInput) error
	OpenElections(ctx context.Context) ([]*domain.Election, error)
	Ballot(ctx context.Context, electionID, citizenID uuid.UUID) (*Ballot, error)
}
