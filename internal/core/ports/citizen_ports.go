package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type CitizenDirectory interface {
	GetByNID(ctx context.Context, nid string) (*domain.Citizen, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Citizen, error)
}

type CitizenRepository interface {
	CitizenDirectory
	Create(ctx context.Context, citizen *domain.Citizen) error
	List(ctx context.Context) ([]domain.Citizen, error)
	// ListUnaffiliated returns the citizens that belong to no party.
	ListUnaffiliated(ctx context.Context) ([]domain.Citizen, error)
}

// IdentityVerifier compares a live image against the citizen's reference image.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, citizenID uuid.UUID, image []byte) (bool, error)
}

type ReferenceImageStore interface {
	Save(ctx context.Context, citizenID uuid.UUID, image []byte) error
	Load(ctx context.Context, citizenID uuid.UUID) ([]byte, error)
	// Delete removes the image. Deleting a missing image is not an error.
	Delete(ctx context.Context, citizenID uuid.UUID) error
}

type RegisterCitizenInput struct {
	NID        string
	Name       string
	DistrictID uuid.UUID
	FaceImage  []byte
}

type CitizenService interface {
	Register(ctx context.Context, input RegisterCitizenInput) (*domain.Citizen, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Citizen, error)
	List(ctx context.Context) ([]domain.Citizen, error)
	ListUnaffiliated(ctx context.Context) ([]domain.Citizen, error)
}
