package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type partyService struct {
	parties  ports.PartyRepository
	citizens ports.CitizenDirectory
	options
}

func NewPartyService(parties ports.PartyRepository, citizens ports.CitizenDirectory, opts ...Option) ports.PartyService {
	return &partyService{
		parties:  parties,
		citizens: citizens,
		options:  newOptions(opts),
	}
}

func (s *partyService) Create(ctx context.Context, input ports.CreatePartyInput) (*domain.Party, error) {
	var violations []string
	name := strings.TrimSpace(input.Name)
	if name == "" {
		violations = append(violations, "name is required")
	}
	if input.PresidentID == uuid.Nil {
		violations = append(violations, "president is required")
	}
	if len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	if _, err := s.citizens.GetByID(ctx, input.PresidentID); err != nil {
		return nil, err
	}

	party := &domain.Party{
		ID:          uuid.New(),
		Name:        name,
		LogoURL:     strings.TrimSpace(input.LogoURL),
		PresidentID: input.PresidentID,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.parties.Create(ctx, party); err != nil {
		return nil, err
	}

	s.logger.Info("party created",
		"event", "party_created",
		"module", "election/party",
		"layer", "service",
		"party_id", party.ID,
	)
	return party, nil
}

func (s *partyService) Get(ctx context.Context, id uuid.UUID) (*domain.Party, error) {
	return s.parties.GetParty(ctx, id)
}

func (s *partyService) List(ctx context.Context) ([]domain.Party, error) {
	return s.parties.ListParties(ctx)
}

func (s *partyService) Update(ctx context.Context, id uuid.UUID, input ports.UpdatePartyInput) (*domain.Party, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}

	party, err := s.parties.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}
	party.Name = name
	party.LogoURL = strings.TrimSpace(input.LogoURL)
	if err := s.parties.Update(ctx, party); err != nil {
		return nil, err
	}

	s.logger.Info("party updated",
		"event", "party_updated",
		"module", "election/party",
		"layer", "service",
		"party_id", party.ID,
	)
	return party, nil
}

func (s *partyService) AddMember(ctx context.Context, partyID, citizenID uuid.UUID) error {
	if _, err := s.parties.GetParty(ctx, partyID); err != nil {
		return err
	}
	if _, err := s.citizens.GetByID(ctx, citizenID); err != nil {
		return err
	}
	return s.parties.AddMember(ctx, partyID, citizenID)
}
