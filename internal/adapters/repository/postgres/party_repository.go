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

type partyRepository struct {
	db *sql.DB
}

func NewPartyRepository(db *sql.DB) ports.PartyRepository {
	return &partyRepository{db: db}
}

func (r *partyRepository) Create(ctx context.Context, party *domain.Party) error {
	return withTx(ctx, r.db, func(ctx context.Context, q querier) error {
		query := `
			INSERT INTO parties (id, name, logo_url, president_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`
		_, err := q.ExecContext(ctx, query, party.ID, party.Name, party.LogoURL, party.PresidentID, party.CreatedAt)
		if err != nil {
			return translate(err)
		}

		_, err = q.ExecContext(ctx, `INSERT INTO party_members (citizen_id, party_id) VALUES ($1, $2)`, party.PresidentID, party.ID)
		if err != nil {
			return translate(err)
		}
		return nil
	})
}

func (r *partyRepository) Update(ctx context.Context, party *domain.Party) error {
	result, err := executor(ctx, r.db).ExecContext(ctx,
		`UPDATE parties SET name = $2, logo_url = $3 WHERE id = $1`,
		party.ID, party.Name, party.LogoURL,
	)
	if err != nil {
		return translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update party: %w", err)
	}
	if affected == 0 {
		return domain.ErrPartyNotFound
	}
	return nil
}

func (r *partyRepository) AddMember(ctx context.Context, partyID, citizenID uuid.UUID) error {
	_, err := executor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO party_members (citizen_id, party_id) VALUES ($1, $2)`,
		citizenID, partyID,
	)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *partyRepository) GetParty(ctx context.Context, id uuid.UUID) (*domain.Party, error) {
	query := `SELECT id, name, logo_url, president_id, created_at FROM parties WHERE id = $1`
	var p domain.Party
	err := executor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.LogoURL, &p.PresidentID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to get party: %w", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (r *partyRepository) ListParties(ctx context.Context) ([]domain.Party, error) {
	query := `SELECT id, name, logo_url, president_id, created_at FROM parties ORDER BY name`
	rows, err := executor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	defer rows.Close()

	var parties []domain.Party
	for rows.Next() {
		var p domain.Party
		if err := rows.Scan(&p.ID, &p.Name, &p.LogoURL, &p.PresidentID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (r *partyRepository) IsMember(ctx context.Context, partyID, citizenID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM party_members WHERE party_id = $1 AND citizen_id = $2)`
	var member bool
	if err := executor(ctx, r.db).QueryRowContext(ctx, query, partyID, citizenID).Scan(&member); err != nil {
		return false, fmt.Errorf("failed to check party membership: %w", err)
	}
	return member, nil
}
