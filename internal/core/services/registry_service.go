package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type registryService struct {
	elections ports.ElectionRepository
	registry  ports.RegistryRepository
	districts ports.DistrictRepository
	locker    ports.ElectionLocker
	options
}

func NewRegistryService(
	elections ports.ElectionRepository,
	registry ports.RegistryRepository,
	districts ports.DistrictRepository,
	locker ports.ElectionLocker,
	opts ...Option,
) ports.RegistryService {
	return &registryService{
		elections: elections,
		registry:  registry,
		districts: districts,
		locker:    locker,
		options:   newOptions(opts),
	}
}

func (s *registryService) ListDistricts(ctx context.Context) ([]domain.District, error) {
	return s.districts.List(ctx)
}

func (s *registryService) UnassignedDistricts(ctx context.Context, electionID uuid.UUID) ([]domain.District, error) {
	if _, err := s.elections.GetByID(ctx, electionID); err != nil {
		return nil, err
	}

	constituencies, err := s.registry.ListConstituencies(ctx, electionID)
	if err != nil {
		return nil, err
	}
	assigned := make(map[uuid.UUID]bool)
	for _, c := range constituencies {
		for _, d := range c.DistrictIDs {
			assigned[d] = true
		}
	}

	districts, err := s.districts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.District, 0, len(districts))
	for _, d := range districts {
		if !assigned[d.ID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *registryService) AddConstituency(ctx context.Context, electionID uuid.UUID, name string) (*domain.Constituency, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}

	constituency := &domain.Constituency{
		ID:          uuid.New(),
		ElectionID:  electionID,
		Name:        name,
		DistrictIDs: []uuid.UUID{},
		CreatedAt:   s.clock.Now(),
	}
	err := s.whileDraft(ctx, electionID, func(ctx context.Context) error {
		return s.registry.CreateConstituency(ctx, constituency)
	})
	if err != nil {
		return nil, err
	}
	return constituency, nil
}

func (s *registryService) RenameConstituency(ctx context.Context, electionID, constituencyID uuid.UUID, name string) (*domain.Constituency, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}

	var constituency *domain.Constituency
	err := s.whileDraft(ctx, electionID, func(ctx context.Context) error {
		if err := s.registry.RenameConstituency(ctx, electionID, constituencyID, name); err != nil {
			return err
		}
		var err error
		constituency, err = s.registry.GetConstituency(ctx, electionID, constituencyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return constituency, nil
}

func (s *registryService) RemoveConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) error {
	return s.whileDraft(ctx, electionID, func(ctx context.Context) error {
		return s.registry.DeleteConstituency(ctx, electionID, constituencyID)
	})
}

func (s *registryService) ListConstituencies(ctx context.Context, electionID uuid.UUID) ([]domain.Constituency, error) {
	if _, err := s.elections.GetByID(ctx, electionID); err != nil {
		return nil, err
	}
	return s.registry.ListConstituencies(ctx, electionID)
}

func (s *registryService) AssignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error {
	ids := uniqueIDs(districtIDs)
	if len(ids) == 0 {
		return domain.NewValidationError("at least one district is required")
	}

	err := s.whileDraft(ctx, electionID, func(ctx context.Context) error {
		for _, id := range ids {
			if _, err := s.districts.GetByID(ctx, id); err != nil {
				return err
			}
		}
		return s.registry.AssignDistricts(ctx, electionID, constituencyID, ids)
	})
	if err != nil {
		return err
	}

	s.logger.Info("districts assigned",
		"event", "districts_assigned",
		"module", "election/registry",
		"layer", "service",
		"election_id", electionID,
		"constituency_id", constituencyID,
		"districts", len(ids),
	)
	return nil
}

func (s *registryService) UnassignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error {
	ids := uniqueIDs(districtIDs)
	if len(ids) == 0 {
		return domain.NewValidationError("at least one district is required")
	}

	return s.whileDraft(ctx, electionID, func(ctx context.Context) error {
		return s.registry.UnassignDistricts(ctx, electionID, constituencyID, ids)
	})
}

func (s *registryService) ResolveConstituency(ctx context.Context, electionID, districtID uuid.UUID) (uuid.UUID, error) {
	if _, err := s.elections.GetByID(ctx, electionID); err != nil {
		return uuid.Nil, err
	}
	if _, err := s.districts.GetByID(ctx, districtID); err != nil {
		return uuid.Nil, err
	}
	return s.registry.ResolveConstituency(ctx, electionID, districtID)
}

// whileDraft runs fn under the election lock, rejecting elections that left draft.
func (s *registryService) whileDraft(ctx context.Context, electionID uuid.UUID, fn func(ctx context.Context) error) error {
	return s.locker.WithElectionLock(ctx, electionID, func(ctx context.Context, e *domain.Election) error {
		if e.State != domain.StateDraft {
			return domain.ErrElectionNotDraft
		}
		return fn(ctx)
	})
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
