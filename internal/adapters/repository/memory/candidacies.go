package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type candidacyRepository struct{ s *Store }

func (r candidacyRepository) Add(ctx context.Context, candidacy *domain.Candidacy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, err := r.s.constituency(candidacy.ElectionID, candidacy.ConstituencyID); err != nil {
		return err
	}

	position := 0
	for _, c := range r.s.candidacies {
		if c.ElectionID != candidacy.ElectionID {
			continue
		}
		if c.ConstituencyID == candidacy.ConstituencyID && c.PartyID == candidacy.PartyID {
			return domain.ErrPartyAlreadyContesting
		}
		if c.CitizenID == candidacy.CitizenID {
			return domain.ErrCitizenAlreadyCandidate
		}
		if c.ConstituencyID == candidacy.ConstituencyID && c.Position > position {
			position = c.Position
		}
	}

	candidacy.Position = position + 1
	r.s.candidacies = append(r.s.candidacies, *candidacy)
	return nil
}

func (r candidacyRepository) Remove(ctx context.Context, electionID, constituencyID, partyID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := slices.IndexFunc(r.s.candidacies, func(c domain.Candidacy) bool {
		return c.ElectionID == electionID && c.ConstituencyID == constituencyID && c.PartyID == partyID
	})
	if i < 0 {
		return domain.ErrCandidacyNotFound
	}
	r.s.candidacies = slices.Delete(r.s.candidacies, i, i+1)
	return nil
}

func (r candidacyRepository) ListByConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) ([]domain.Candidacy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Candidacy
	for _, c := range r.s.candidacies {
		if c.ElectionID == electionID && c.ConstituencyID == constituencyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r candidacyRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Candidacy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Candidacy
	for _, c := range r.s.candidacies {
		if c.ElectionID == electionID {
			out = append(out, c)
		}
	}
	return out, nil
}
