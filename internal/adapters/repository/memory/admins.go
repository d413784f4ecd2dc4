package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type adminRepository struct{ s *Store }

func (r adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.admins[email]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	a := *admin
	r.s.admins[a.Email] = &a
	return nil
}

func (r adminRepository) TouchLogin(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for _, a := range r.s.admins {
		if a.ID == id {
			a.LastLoginAt = &now
		}
	}
	return nil
}
