package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type partyRepository struct{ s *Store }

func (r partyRepository) Create(ctx context.Context, party *domain.Party) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.parties {
		if strings.EqualFold(p.Name, party.Name) {
			return domain.ErrDuplicateName
		}
	}
	if _, ok := r.s.citizens[party.PresidentID]; !ok {
		return domain.ErrCitizenNotFound
	}
	if _, member := r.s.memberships[party.PresidentID]; member {
		return domain.ErrAlreadyPartyMember
	}

	p := *party
	r.s.parties[p.ID] = &p
	r.s.memberships[p.PresidentID] = p.ID
	return nil
}

func (r partyRepository) Update(ctx context.Context, party *domain.Party) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.parties[party.ID]
	if !ok {
		return domain.ErrPartyNotFound
	}
	for id, p := range r.s.parties {
		if id != party.ID && strings.EqualFold(p.Name, party.Name) {
			return domain.ErrDuplicateName
		}
	}
	stored.Name = party.Name
	stored.LogoURL = party.LogoURL
	return nil
}

func (r partyRepository) AddMember(ctx context.Context, partyID, citizenID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.parties[partyID]; !ok {
		return domain.ErrPartyNotFound
	}
	if _, ok := r.s.citizens[citizenID]; !ok {
		return domain.ErrCitizenNotFound
	}
	if _, member := r.s.memberships[citizenID]; member {
		return domain.ErrAlreadyPartyMember
	}
	r.s.memberships[citizenID] = partyID
	return nil
}

func (r partyRepository) GetParty(ctx context.Context, id uuid.UUID) (*domain.Party, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.parties[id]
	if !ok {
		return nil, domain.ErrPartyNotFound
	}
	out := *p
	return &out, nil
}

func (r partyRepository) ListParties(ctx context.Context) ([]domain.Party, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]domain.Party, 0, len(r.s.parties))
	for _, p := range r.s.parties {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b domain.Party) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (r partyRepository) IsMember(ctx context.Context, partyID, citizenID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.memberships[citizenID]
	return ok && p == partyID, nil
}
