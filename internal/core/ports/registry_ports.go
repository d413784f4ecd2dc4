package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type DistrictRepository interface {
	Save(ctx context.Context, district *domain.District) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.District, error)
	List(ctx context.Context) ([]domain.District, error)
}

type RegistryRepository interface {
	CreateConstituency(ctx context.Context, constituency *domain.Constituency) error
	GetConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) (*domain.Constituency, error)
	ListConstituencies(ctx context.Context, electionID uuid.UUID) ([]domain.Constituency, error)
	RenameConstituency(ctx context.Context, electionID, constituencyID uuid.UUID, name string) error
	DeleteConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) error
	// AssignDistricts is all-or-nothing. A district owned by another constituency
	// of the same election fails the whole call with domain.ErrDistrictAlreadyAssigned.
	AssignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error
	UnassignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error
	ResolveConstituency(ctx context.Context, electionID, districtID uuid.UUID) (uuid.UUID, error)
}

type RegistryService interface {
	ListDistricts(ctx context.Context) ([]domain.District, error)
	UnassignedDistricts(ctx context.Context, electionID uuid.UUID) ([]domain.District, error)
	AddConstituency(ctx context.Context, electionID uuid.UUID, name string) (*domain.Constituency, error)
	RenameConstituency(ctx context.Context, electionID, constituencyID uuid.UUID, name string) (*domain.Constituency, error)
	RemoveConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) error
	ListConstituencies(ctx context.Context, electionID uuid.UUID) ([]domain.Constituency, error)
	AssignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error
	UnassignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error
	ResolveConstituency(ctx context.Context, electionID, districtID uuid.UUID) (uuid.UUID, error)
}
