package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type candidacyService struct {
	registry    ports.RegistryRepository
	candidacies ports.CandidacyRepository
	parties     ports.PartyDirectory
	citizens    ports.CitizenDirectory
	locker      ports.ElectionLocker
	options
}

func NewCandidacyService(
	registry ports.RegistryRepository,
	candidacies ports.CandidacyRepository,
	parties ports.PartyDirectory,
	citizens ports.CitizenDirectory,
	locker ports.ElectionLocker,
	opts ...Option,
) ports.CandidacyService {
	return &candidacyService{
		registry:    registry,
		candidacies: candidacies,
		parties:     parties,
		citizens:    citizens,
		locker:      locker,
		options:     newOptions(opts),
	}
}

func (s *candidacyService) AddCandidacy(ctx context.Context, input ports.AddCandidacyInput) (*domain.Candidacy, error) {
	candidacy := &domain.Candidacy{
		ElectionID:     input.ElectionID,
		ConstituencyID: input.ConstituencyID,
		PartyID:        input.PartyID,
		CitizenID:      input.CitizenID,
		CreatedAt:      s.clock.Now(),
	}

	err := s.locker.WithElectionLock(ctx, input.ElectionID, func(ctx context.Context, e *domain.Election) error {
		if e.State != domain.StateDraft {
			return domain.ErrElectionNotDraft
		}
		if _, err := s.registry.GetConstituency(ctx, input.ElectionID, input.ConstituencyID); err != nil {
			return err
		}
		if _, err := s.parties.GetParty(ctx, input.PartyID); err != nil {
			return err
		}
		if _, err := s.citizens.GetByID(ctx, input.CitizenID); err != nil {
			return err
		}

		member, err := s.parties.IsMember(ctx, input.PartyID, input.CitizenID)
		if err != nil {
			return err
		}
		if !member {
			return domain.ErrCandidateNotMember
		}

		return s.candidacies.Add(ctx, candidacy)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("candidacy added",
		"event", "candidacy_added",
		"module", "election/candidacy",
		"layer", "service",
		"election_id", candidacy.ElectionID,
		"constituency_id", candidacy.ConstituencyID,
		"party_id", candidacy.PartyID,
	)
	return candidacy, nil
}

func (s *candidacyService) RemoveCandidacy(ctx context.Context, electionID, constituencyID, partyID uuid.UUID) error {
	return s.locker.WithElectionLock(ctx, electionID, func(ctx context.Context, e *domain.Election) error {
		if e.State != domain.StateDraft {
			return domain.InvalidState(fmt.Sprintf("candidacies of a %s election cannot be removed", e.State))
		}
		return s.candidacies.Remove(ctx, electionID, constituencyID, partyID)
	})
}

func (s *candidacyService) ListCandidates(ctx context.Context, electionID, constituencyID uuid.UUID) ([]domain.Candidacy, error) {
	if _, err := s.registry.GetConstituency(ctx, electionID, constituencyID); err != nil {
		return nil, err
	}
	return s.candidacies.ListByConstituency(ctx, electionID, constituencyID)
}

// AvailableParties lists the parties that do not yet field a candidate in the constituency.
func (s *candidacyService) AvailableParties(ctx context.Context, electionID, constituencyID uuid.UUID) ([]domain.Party, error) {
	contesting, err := s.ListCandidates(ctx, electionID, constituencyID)
	if err != nil {
		return nil, err
	}
	taken := make(map[uuid.UUID]bool, len(contesting))
	for _, c := range contesting {
		taken[c.PartyID] = true
	}

	parties, err := s.parties.ListParties(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Party, 0, len(parties))
	for _, p := range parties {
		if !taken[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}
