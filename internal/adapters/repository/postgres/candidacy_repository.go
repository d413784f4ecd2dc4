package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const candidacyColumns = `election_id, constituency_id, party_id, citizen_id, position, created_at`

type candidacyRepository struct {
	db *sql.DB
}

func NewCandidacyRepository(db *sql.DB) ports.CandidacyRepository {
	return &candidacyRepository{db: db}
}

func (r *candidacyRepository) Add(ctx context.Context, candidacy *domain.Candidacy) error {
	return withTx(ctx, r.db, func(ctx context.Context, q querier) error {
		if err := lookupConstituency(ctx, q, candidacy.ElectionID, candidacy.ConstituencyID); err != nil {
			return err
		}

		query := `
			INSERT INTO candidacies (election_id, constituency_id, party_id, citizen_id, position, created_at)
			SELECT $1, $2, $3, $4, COALESCE(MAX(position), 0) + 1, $5
			FROM candidacies
			WHERE constituency_id = $2
			RETURNING position
		`
		err := q.QueryRowContext(ctx, query,
			candidacy.ElectionID, candidacy.ConstituencyID, candidacy.PartyID, candidacy.CitizenID, candidacy.CreatedAt,
		).Scan(&candidacy.Position)
		if err != nil {
			return translate(err)
		}
		return nil
	})
}

func (r *candidacyRepository) Remove(ctx context.Context, electionID, constituencyID, partyID uuid.UUID) error {
	query := `DELETE FROM candidacies WHERE election_id = $1 AND constituency_id = $2 AND party_id = $3`
	res, err := executor(ctx, r.db).ExecContext(ctx, query, electionID, constituencyID, partyID)
	if err != nil {
		return fmt.Errorf("failed to delete candidacy: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrCandidacyNotFound
	}
	return nil
}

func (r *candidacyRepository) ListByConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) ([]domain.Candidacy, error) {
	query := `
		SELECT ` + candidacyColumns + `
		FROM candidacies
		WHERE election_id = $1 AND constituency_id = $2
		ORDER BY position
	`
	return r.query(ctx, query, electionID, constituencyID)
}

func (r *candidacyRepository) ListByElection(ctx context.Context, electionID uuid.UUID) ([]domain.Candidacy, error) {
	query := `
		SELECT ` + candidacyColumns + `
		FROM candidacies
		WHERE election_id = $1
		ORDER BY position, created_at
	`
	return r.query(ctx, query, electionID)
}

func (r *candidacyRepository) query(ctx context.Context, query string, args ...any) ([]domain.Candidacy, error) {
	rows, err := executor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidacies: %w", err)
	}
	defer rows.Close()

	var candidacies []domain.Candidacy
	for rows.Next() {
		var c domain.Candidacy
		if err := rows.Scan(&c.ElectionID, &c.ConstituencyID, &c.PartyID, &c.CitizenID, &c.Position, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidacy: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		candidacies = append(candidacies, c)
	}
	return candidacies, rows.Err()
}
