package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type CandidacyRepository interface {
	// Add assigns the next position within the constituency. Duplicate party per
	// constituency or citizen per election fail with a conflict.
	Add(ctx context.Context, candidacy *domain.Candidacy) error
	Remove(ctx context.Context, electionID, constituencyID, partyID uuid.UUID) error
	ListByConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) ([]domain.Candidacy, error)
	ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Candidacy, error)
}

type AddCandidacyInput struct {
	ElectionID     uuid.UUID
	ConstituencyID uuid.UUID
	PartyID        uuid.UUID
	CitizenID      uuid.UUID
}

type CandidacyService interface {
	AddCandidacy(ctx context.Context, input AddCandidacyInput) (*domain.Candidacy, error)
	RemoveCandidacy(ctx context.Context, electionID, constituencyID, partyID uuid.UUID) error
	ListCandidates(ctx context.Context, electionID, constituencyID uuid.UUID) ([]domain.Candidacy, error)
	AvailableParties(ctx context.Context, electionID, constituencyID uuid.UUID) ([]domain.Party, error)
}
