package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const electionColumns = `id, name, date, time_limit_hours, state, opened_at, closed_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

type electionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) ports.ElectionRepository {
	return &electionRepository{
		db: db,
	}
}

func (r *electionRepository) Create(ctx context.Context, election *domain.Election) error {
	query := `
		INSERT INTO elections (id, name, date, time_limit_hours, state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		election.ID, election.Name, nullTime(election.Date), election.TimeLimitHours, election.State, election.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", translate(err))
	}
	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections WHERE id = $1`
	election, err := scanElection(executor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, fmt.Errorf("failed to get election: %w", err)
	}
	return election, nil
}

func (r *electionRepository) List(ctx context.Context, states ...domain.ElectionState) ([]*domain.Election, error) {
	query := `
		SELECT ` + electionColumns + `
		FROM elections
		WHERE cardinality($1::text[]) = 0 OR state = ANY($1::text[])
		ORDER BY created_at DESC, id
	`
	rows, err := executor(ctx, r.db).QueryContext(ctx, query, pq.Array(stateStrings(states)))
	if err != nil {
		return nil, fmt.Errorf("failed to list elections: %w", err)
	}
	defer rows.Close()

	return scanElections(rows)
}

func (r *electionRepository) UpdateDetails(ctx context.Context, election *domain.Election) error {
	query := `UPDATE elections SET name = $2, date = $3, time_limit_hours = $4 WHERE id = $1`
	res, err := executor(ctx, r.db).ExecContext(ctx, query,
		election.ID, election.Name, nullTime(election.Date), election.TimeLimitHours,
	)
	if err != nil {
		return fmt.Errorf("failed to update election: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrElectionNotFound
	}
	return nil
}

func (r *electionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := withTx(ctx, r.db, func(ctx context.Context, q querier) error {
		var state domain.ElectionState
		err := q.QueryRowContext(ctx, `SELECT state FROM elections WHERE id = $1 FOR UPDATE`, id).Scan(&state)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrElectionNotFound
			}
			return fmt.Errorf("failed to lock election: %w", err)
		}
		if state != domain.StateDraft {
			return nil
		}

		if _, err := q.ExecContext(ctx, `DELETE FROM elections WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete election: %w", err)
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *electionRepository) CompareAndSetState(ctx context.Context, id uuid.UUID, expected []domain.ElectionState, next domain.ElectionState, at time.Time) (*domain.Election, bool, error) {
	query := `
		UPDATE elections
		SET state = $3::text,
			opened_at = CASE WHEN $3::text = 'open' THEN $4 ELSE opened_at END,
			closed_at = CASE WHEN $3::text = 'closed' THEN $4 ELSE closed_at END
		WHERE id = $1 AND state = ANY($2::text[])
		RETURNING ` + electionColumns

	q := executor(ctx, r.db)
	election, err := scanElection(q.QueryRowContext(ctx, query, id, pq.Array(stateStrings(expected)), next, at))
	if err == nil {
		return election, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to update election state: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (r *electionRepository) ListExpired(ctx context.Context, now time.Time) ([]*domain.Election, error) {
	query := `
		SELECT ` + electionColumns + `
		FROM elections
		WHERE state = 'open'
			AND time_limit_hours > 0
			AND opened_at + make_interval(hours => time_limit_hours) <= $1
	`
	rows, err := executor(ctx, r.db).QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired elections: %w", err)
	}
	defer rows.Close()

	return scanElections(rows)
}

func scanElection(row rowScanner) (*domain.Election, error) {
	var e domain.Election
	var date, openedAt, closedAt sql.NullTime
	err := row.Scan(&e.ID, &e.Name, &date, &e.TimeLimitHours, &e.State, &openedAt, &closedAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	if date.Valid {
		e.Date = date.Time.UTC()
	}
	if openedAt.Valid {
		t := openedAt.Time.UTC()
		e.OpenedAt = &t
	}
	if closedAt.Valid {
		t := closedAt.Time.UTC()
		e.ClosedAt = &t
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

func scanElections(rows *sql.Rows) ([]*domain.Election, error) {
	var elections []*domain.Election
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate elections: %w", err)
	}
	return elections, nil
}

func stateStrings(states []domain.ElectionState) []string {
	out := make([]string, len(states))
	for i, s := range states {
		out[i] = string(s)
	}
	return out
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
