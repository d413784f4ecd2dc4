package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) ports.AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `SELECT id, email, name, created_at, last_login_at FROM admins WHERE email = $1`
	admin := &domain.Admin{}
	var lastLogin sql.NullTime
	err := r.db.QueryRowContext(ctx, query, email).Scan(&admin.ID, &admin.Email, &admin.Name, &admin.CreatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if lastLogin.Valid {
		admin.LastLoginAt = &lastLogin.Time
	}
	return admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	query := `INSERT INTO admins (id, email, name) VALUES ($1, $2, $3) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query, admin.ID, admin.Email, admin.Name).Scan(&admin.CreatedAt)
}

func (r *AdminRepository) TouchLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admins SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}
