package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type citizenRepository struct{ s *Store }

func (r citizenRepository) Create(ctx context.Context, citizen *domain.Citizen) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.nids[citizen.NID]; ok {
		return domain.ErrDuplicateNID
	}
	if _, ok := r.s.districts[citizen.DistrictID]; !ok {
		return domain.ErrDistrictNotFound
	}

	c := *citizen
	c.PartyID = nil
	r.s.citizens[c.ID] = &c
	r.s.nids[c.NID] = c.ID
	return nil
}

func (r citizenRepository) GetByNID(ctx context.Context, nid string) (*domain.Citizen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.nids[nid]
	if !ok {
		return nil, domain.ErrCitizenNotFound
	}
	return r.s.citizen(id), nil
}

func (r citizenRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Citizen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.citizens[id]; !ok {
		return nil, domain.ErrCitizenNotFound
	}
	return r.s.citizen(id), nil
}

func (r citizenRepository) List(ctx context.Context) ([]domain.Citizen, error) {
	return r.list(func(id uuid.UUID) bool { return true }), nil
}

func (r citizenRepository) ListUnaffiliated(ctx context.Context) ([]domain.Citizen, error) {
	return r.list(func(id uuid.UUID) bool {
		_, member := r.s.memberships[id]
		return !member
	}), nil
}

// list returns the citizens accepted by keep ordered by name, then NID.
func (r citizenRepository) list(keep func(uuid.UUID) bool) []domain.Citizen {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]domain.Citizen, 0, len(r.s.citizens))
	for id := range r.s.citizens {
		if keep(id) {
			out = append(out, *r.s.citizen(id))
		}
	}
	slices.SortFunc(out, func(a, b domain.Citizen) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.NID, b.NID)
	})
	return out
}

func (s *Store) citizen(id uuid.UUID) *domain.Citizen {
	c := *s.citizens[id]
	if partyID, ok := s.memberships[id]; ok {
		c.PartyID = &partyID
	}
	return &c
}
