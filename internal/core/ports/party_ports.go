package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type PartyDirectory interface {
	GetParty(ctx context.Context, id uuid.UUID) (*domain.Party, error)
	ListParties(ctx context.Context) ([]domain.Party, error)
	IsMember(ctx context.Context, partyID, citizenID uuid.UUID) (bool, error)
}

type PartyRepository interface {
	PartyDirectory
	// Create stores the party and enrolls its president as the first member.
	Create(ctx context.Context, party *domain.Party) error
	AddMember(ctx context.Context, partyID, citizenID uuid.UUID) error
	// Update rewrites the name and logo. The president and members are kept.
	Update(ctx context.Context, party *domain.Party) error
}

type CreatePartyInput struct {
	Name        string
	LogoURL     string
	PresidentID uuid.UUID
}

type UpdatePartyInput struct {
	Name    string
	LogoURL string
}

type PartyService interface {
	Create(ctx context.Context, input CreatePartyInput) (*domain.Party, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Party, error)
	List(ctx context.Context) ([]domain.Party, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePartyInput) (*domain.Party, error)
	AddMember(ctx context.Context, partyID, citizenID uuid.UUID) error
}
