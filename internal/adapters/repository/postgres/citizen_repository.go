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

const citizenQuery = `
	SELECT c.id, c.nid, c.name, c.district_id, m.party_id, c.created_at
	FROM citizens c
	LEFT JOIN party_members m ON m.citizen_id = c.id
`

type citizenRepository struct {
	db *sql.DB
}

func NewCitizenRepository(db *sql.DB) ports.CitizenRepository {
	return &citizenRepository{db: db}
}

func (r *citizenRepository) Create(ctx context.Context, citizen *domain.Citizen) error {
	query := `INSERT INTO citizens (id, nid, name, district_id, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		citizen.ID, citizen.NID, citizen.Name, citizen.DistrictID, citizen.CreatedAt,
	)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *citizenRepository) GetByNID(ctx context.Context, nid string) (*domain.Citizen, error) {
	return r.get(ctx, citizenQuery+`WHERE c.nid = $1`, nid)
}

func (r *citizenRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Citizen, error) {
	return r.get(ctx, citizenQuery+`WHERE c.id = $1`, id)
}

func (r *citizenRepository) List(ctx context.Context) ([]domain.Citizen, error) {
	return r.list(ctx, citizenQuery+`ORDER BY c.name, c.nid`)
}

func (r *citizenRepository) ListUnaffiliated(ctx context.Context) ([]domain.Citizen, error) {
	return r.list(ctx, citizenQuery+`WHERE m.party_id IS NULL ORDER BY c.name, c.nid`)
}

func (r *citizenRepository) list(ctx context.Context, query string) ([]domain.Citizen, error) {
	rows, err := executor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list citizens: %w", err)
	}
	defer rows.Close()

	var citizens []domain.Citizen
	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan citizen: %w", err)
		}
		citizens = append(citizens, *c)
	}
	return citizens, rows.Err()
}

func (r *citizenRepository) get(ctx context.Context, query string, arg any) (*domain.Citizen, error) {
	c, err := scanCitizen(executor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCitizenNotFound
		}
		return nil, fmt.Errorf("failed to get citizen: %w", err)
	}
	return c, nil
}

func scanCitizen(row rowScanner) (*domain.Citizen, error) {
	var c domain.Citizen
	var partyID uuid.NullUUID
	if err := row.Scan(&c.ID, &c.NID, &c.Name, &c.DistrictID, &partyID, &c.CreatedAt); err != nil {
		return nil, err
	}
	if partyID.Valid {
		c.PartyID = &partyID.UUID
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}
