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

type districtRepository struct {
	db *sql.DB
}

func NewDistrictRepository(db *sql.DB) ports.DistrictRepository {
	return &districtRepository{db: db}
}

// Save inserts the district or renames an existing one with the same id.
func (r *districtRepository) Save(ctx context.Context, district *domain.District) error {
	query := `
		INSERT INTO districts (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := executor(ctx, r.db).ExecContext(ctx, query, district.ID, district.Name); err != nil {
		return fmt.Errorf("failed to save district: %w", translate(err))
	}
	return nil
}

func (r *districtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.District, error) {
	var d domain.District
	err := executor(ctx, r.db).QueryRowContext(ctx, `SELECT id, name FROM districts WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDistrictNotFound
		}
		return nil, fmt.Errorf("failed to get district: %w", err)
	}
	return &d, nil
}

func (r *districtRepository) List(ctx context.Context) ([]domain.District, error) {
	rows, err := executor(ctx, r.db).QueryContext(ctx, `SELECT id, name FROM districts ORDER BY created_at, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}
	defer rows.Close()

	var districts []domain.District
	for rows.Next() {
		var d domain.District
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("failed to scan district: %w", err)
		}
		districts = append(districts, d)
	}
	return districts, rows.Err()
}
