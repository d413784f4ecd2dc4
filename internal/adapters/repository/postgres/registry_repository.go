package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type registryRepository struct {
	db *sql.DB
}

func NewRegistryRepository(db *sql.DB) ports.RegistryRepository {
	return &registryRepository{db: db}
}

func (r *registryRepository) CreateConstituency(ctx context.Context, constituency *domain.Constituency) error {
	query := `INSERT INTO constituencies (id, election_id, name, created_at) VALUES ($1, $2, $3, $4)`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		constituency.ID, constituency.ElectionID, constituency.Name, constituency.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert constituency: %w", translate(err))
	}
	return nil
}

func (r *registryRepository) GetConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) (*domain.Constituency, error) {
	q := executor(ctx, r.db)
	if err := lookupConstituency(ctx, q, electionID, constituencyID); err != nil {
		return nil, err
	}

	constituencies, err := r.list(ctx, q, electionID, &constituencyID)
	if err != nil {
		return nil, err
	}
	if len(constituencies) == 0 {
		return nil, domain.ErrConstituencyNotFound
	}
	return &constituencies[0], nil
}

func (r *registryRepository) ListConstituencies(ctx context.Context, electionID uuid.UUID) ([]domain.Constituency, error) {
	return r.list(ctx, executor(ctx, r.db), electionID, nil)
}

func (r *registryRepository) list(ctx context.Context, q querier, electionID uuid.UUID, only *uuid.UUID) ([]domain.Constituency, error) {
	query := `
		SELECT id, election_id, name, created_at
		FROM constituencies
		WHERE election_id = $1 AND ($2::uuid IS NULL OR id = $2::uuid)
		ORDER BY seq
	`
	var filter any
	if only != nil {
		filter = *only
	}
	rows, err := q.QueryContext(ctx, query, electionID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list constituencies: %w", err)
	}
	defer rows.Close()

	var constituencies []domain.Constituency
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var c domain.Constituency
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan constituency: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		index[c.ID] = len(constituencies)
		constituencies = append(constituencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate constituencies: %w", err)
	}

	assignments, err := q.QueryContext(ctx,
		`SELECT constituency_id, district_id FROM constituency_districts WHERE election_id = $1 ORDER BY seq`,
		electionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list district assignments: %w", err)
	}
	defer assignments.Close()

	for assignments.Next() {
		var cid, did uuid.UUID
		if err := assignments.Scan(&cid, &did); err != nil {
			return nil, fmt.Errorf("failed to scan district assignment: %w", err)
		}
		if i, ok := index[cid]; ok {
			constituencies[i].DistrictIDs = append(constituencies[i].DistrictIDs, did)
		}
	}
	return constituencies, assignments.Err()
}

func (r *registryRepository) RenameConstituency(ctx context.Context, electionID, constituencyID uuid.UUID, name string) error {
	return withTx(ctx, r.db, func(ctx context.Context, q querier) error {
		if err := lookupConstituency(ctx, q, electionID, constituencyID); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx, `UPDATE constituencies SET name = $3 WHERE election_id = $1 AND id = $2`, electionID, constituencyID, name)
		if err != nil {
			return fmt.Errorf("failed to rename constituency: %w", translate(err))
		}
		return nil
	})
}

func (r *registryRepository) DeleteConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) error {
	return withTx(ctx, r.db, func(ctx context.Context, q querier) error {
		if err := lookupConstituency(ctx, q, electionID, constituencyID); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx, `DELETE FROM constituencies WHERE election_id = $1 AND id = $2`, electionID, constituencyID)
		if err != nil {
			return fmt.Errorf("failed to delete constituency: %w", err)
		}
		return nil
	})
}

func (r *registryRepository) AssignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error {
	return withTx(ctx, r.db, func(ctx context.Context, q querier) error {
		if err := lookupConstituency(ctx, q, electionID, constituencyID); err != nil {
			return err
		}

		for _, districtID := range districtIDs {
			var owner uuid.UUID
			err := q.QueryRowContext(ctx,
				`SELECT constituency_id FROM constituency_districts WHERE election_id = $1 AND district_id = $2`,
				electionID, districtID,
			).Scan(&owner)
			switch {
			case err == nil && owner == constituencyID:
				continue
			case err == nil:
				return domain.ErrDistrictAlreadyAssigned
			case !errors.Is(err, sql.ErrNoRows):
				return fmt.Errorf("failed to check district assignment: %w", err)
			}

			_, err = q.ExecContext(ctx,
				`INSERT INTO constituency_districts (election_id, district_id, constituency_id) VALUES ($1, $2, $3)`,
				electionID, districtID, constituencyID,
			)
			if err != nil {
				return translate(err)
			}
		}
		return nil
	})
}

func (r *registryRepository) UnassignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error {
	return withTx(ctx, r.db, func(ctx context.Context, q querier) error {
		if err := lookupConstituency(ctx, q, electionID, constituencyID); err != nil {
			return err
		}
		query := `
			DELETE FROM constituency_districts
			WHERE election_id = $1 AND constituency_id = $2 AND district_id = ANY($3::uuid[])
		`
		if _, err := q.ExecContext(ctx, query, electionID, constituencyID, pq.Array(uuidStrings(districtIDs))); err != nil {
			return fmt.Errorf("failed to unassign districts: %w", err)
		}
		return nil
	})
}

func (r *registryRepository) ResolveConstituency(ctx context.Context, electionID, districtID uuid.UUID) (uuid.UUID, error) {
	var constituencyID uuid.UUID
	err := executor(ctx, r.db).QueryRowContext(ctx,
		`SELECT constituency_id FROM constituency_districts WHERE election_id = $1 AND district_id = $2`,
		electionID, districtID,
	).Scan(&constituencyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, domain.ErrNotEligible
		}
		return uuid.Nil, fmt.Errorf("failed to resolve constituency: %w", err)
	}
	return constituencyID, nil
}

// lookupConstituency tells a missing election apart from a missing constituency.
func lookupConstituency(ctx context.Context, q querier, electionID, constituencyID uuid.UUID) error {
	query := `
		SELECT c.id IS NOT NULL
		FROM elections e
		LEFT JOIN constituencies c ON c.election_id = e.id AND c.id = $2
		WHERE e.id = $1
	`
	var found bool
	if err := q.QueryRowContext(ctx, query, electionID, constituencyID).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrElectionNotFound
		}
		return fmt.Errorf("failed to look up constituency: %w", err)
	}
	if !found {
		return domain.ErrConstituencyNotFound
	}
	return nil
}
