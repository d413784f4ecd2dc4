package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type voteRepository struct{ s *Store }

// Append checks state and uniqueness and inserts under the store mutex, so a
// concurrent close or duplicate vote cannot interleave.
func (r voteRepository) Append(ctx context.Context, vote *domain.Vote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.elections[vote.ElectionID]
	if !ok {
		return domain.ErrElectionNotFound
	}
	if e.State != domain.StateOpen {
		return domain.ErrElectionNotOpen
	}

	keys := r.s.voterKeys[vote.ElectionID]
	if _, voted := keys[vote.VoterKey]; voted {
		return domain.ErrAlreadyVoted
	}
	if keys == nil {
		keys = make(map[string]struct{})
		r.s.voterKeys[vote.ElectionID] = keys
	}

	keys[vote.VoterKey] = struct{}{}
	r.s.votes[vote.ElectionID] = append(r.s.votes[vote.ElectionID], *vote)
	return nil
}

func (r voteRepository) HasVoted(ctx context.Context, electionID uuid.UUID, voterKey string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, voted := r.s.voterKeys[electionID][voterKey]
	return voted, nil
}

func (r voteRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Vote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return slices.Clone(r.s.votes[electionID]), nil
}
