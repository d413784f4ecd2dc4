package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type TokenPayload struct {
	Email string
	Name  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string, clientID string) (*TokenPayload, error)
}

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) error
	TouchLogin(ctx context.Context, id uuid.UUID) error
}

type SessionClaims struct {
	Subject   uuid.UUID
	Role      domain.Role
	CitizenID uuid.UUID
}

type AuthService interface {
	LoginAdmin(ctx context.Context, googleToken string) (string, error)
	AuthenticateVoter(ctx context.Context, nid string, image []byte) (string, error)
	ParseToken(token string) (*SessionClaims, error)
}
