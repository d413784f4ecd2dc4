package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type electionRepository struct{ s *Store }

func (r electionRepository) Create(ctx context.Context, election *domain.Election) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.elections[election.ID]; !ok {
		r.s.electionOrder = append(r.s.electionOrder, election.ID)
	}
	r.s.elections[election.ID] = cloneElection(election)
	return nil
}

func (r electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	return cloneElection(e), nil
}

func (r electionRepository) List(ctx context.Context, states ...domain.ElectionState) ([]*domain.Election, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Election
	for i := len(r.s.electionOrder) - 1; i >= 0; i-- {
		e, ok := r.s.elections[r.s.electionOrder[i]]
		if !ok || len(states) > 0 && !slices.Contains(states, e.State) {
			continue
		}
		out = append(out, cloneElection(e))
	}
	return out, nil
}

func (r electionRepository) UpdateDetails(ctx context.Context, election *domain.Election) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.elections[election.ID]
	if !ok {
		return domain.ErrElectionNotFound
	}
	e.Name = election.Name
	e.Date = election.Date
	e.TimeLimitHours = election.TimeLimitHours
	return nil
}

func (r electionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.elections[id]
	if !ok {
		return false, domain.ErrElectionNotFound
	}
	if e.State != domain.StateDraft {
		return false, nil
	}

	delete(r.s.elections, id)
	delete(r.s.assignments, id)
	for cid, c := range r.s.constituencies {
		if c.ElectionID == id {
			delete(r.s.constituencies, cid)
		}
	}
	r.s.candidacies = slices.DeleteFunc(r.s.candidacies, func(c domain.Candidacy) bool {
		return c.ElectionID == id
	})
	return true, nil
}

func (r electionRepository) CompareAndSetState(ctx context.Context, id uuid.UUID, expected []domain.ElectionState, next domain.ElectionState, at time.Time) (*domain.Election, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.elections[id]
	if !ok {
		return nil, false, domain.ErrElectionNotFound
	}
	if !slices.Contains(expected, e.State) {
		return cloneElection(e), false, nil
	}

	e.State = next
	switch next {
	case domain.StateOpen:
		e.OpenedAt = &at
	case domain.StateClosed:
		e.ClosedAt = &at
	}
	return cloneElection(e), true, nil
}

func (r electionRepository) ListExpired(ctx context.Context, now time.Time) ([]*domain.Election, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*domain.Election
	for _, e := range r.s.elections {
		if e.Expired(now) {
			out = append(out, cloneElection(e))
		}
	}
	return out, nil
}
