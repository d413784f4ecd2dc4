package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// Append holds a share lock on the election row while inserting, so the vote
// either lands before a concurrent close or is rejected after it. The unique
// voter key constraint rejects duplicates from concurrent requests.
func (r *voteRepository) Append(ctx context.Context, vote *domain.Vote) error {
	return withTx(ctx, r.db, func(ctx context.Context, q querier) error {
		var state domain.ElectionState
		err := q.QueryRowContext(ctx, `SELECT state FROM elections WHERE id = $1 FOR SHARE`, vote.ElectionID).Scan(&state)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrElectionNotFound
			}
			return fmt.Errorf("failed to lock election: %w", err)
		}
		if state != domain.StateOpen {
			return domain.ErrElectionNotOpen
		}

		query := `
			INSERT INTO votes (id, election_id, voter_key, constituency_id, party_id, cast_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err = q.ExecContext(ctx, query,
			vote.ID, vote.ElectionID, vote.VoterKey, vote.ConstituencyID, vote.PartyID, vote.CastAt,
		)
		if err != nil {
			if mapped := translate(err); mapped != err {
				return mapped
			}
			return fmt.Errorf("failed to save vote: %w", err)
		}
		return nil
	})
}

func (r *voteRepository) HasVoted(ctx context.Context, electionID uuid.UUID, voterKey string) (bool, error) {
	query := `SELECT 1 FROM votes WHERE election_id = $1 AND voter_key = $2 LIMIT 1`
	var exists int
	err := executor(ctx, r.db).QueryRowContext(ctx, query, electionID, voterKey).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing vote: %w", err)
	}
	return true, nil
}

func (r *voteRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Vote, error) {
	query := `
		SELECT id, election_id, voter_key, constituency_id, party_id, cast_at
		FROM votes
		WHERE election_id = $1
		ORDER BY cast_at, id
	`
	rows, err := executor(ctx, r.db).QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.ID, &v.ElectionID, &v.VoterKey, &v.ConstituencyID, &v.PartyID, &v.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.CastAt = v.CastAt.UTC()
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
