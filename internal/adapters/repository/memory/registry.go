package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type districtRepository struct{ s *Store }

func (r districtRepository) Save(ctx context.Context, district *domain.District) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.districts {
		if d.Name == district.Name && d.ID != district.ID {
			return domain.ErrDuplicateName
		}
	}
	if _, ok := r.s.districts[district.ID]; !ok {
		r.s.districtOrder = append(r.s.districtOrder, district.ID)
	}
	r.s.districts[district.ID] = *district
	return nil
}

func (r districtRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.District, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.districts[id]
	if !ok {
		return nil, domain.ErrDistrictNotFound
	}
	return &d, nil
}

func (r districtRepository) List(ctx context.Context) ([]domain.District, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]domain.District, 0, len(r.s.districtOrder))
	for _, id := range r.s.districtOrder {
		out = append(out, r.s.districts[id])
	}
	return out, nil
}

type registryRepository struct{ s *Store }

func (r registryRepository) CreateConstituency(ctx context.Context, constituency *domain.Constituency) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.elections[constituency.ElectionID]; !ok {
		return domain.ErrElectionNotFound
	}
	for _, c := range r.s.constituencies {
		if c.ElectionID == constituency.ElectionID && c.Name == constituency.Name {
			return domain.ErrDuplicateName
		}
	}
	c := cloneConstituency(constituency)
	c.DistrictIDs = nil
	r.s.constituencies[c.ID] = &c
	r.s.constituencyOrder = append(r.s.constituencyOrder, c.ID)
	return nil
}

func (r registryRepository) GetConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) (*domain.Constituency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, err := r.s.constituency(electionID, constituencyID)
	if err != nil {
		return nil, err
	}
	out := cloneConstituency(c)
	return &out, nil
}

func (r registryRepository) ListConstituencies(ctx context.Context, electionID uuid.UUID) ([]domain.Constituency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Constituency
	for _, id := range r.s.constituencyOrder {
		if c, ok := r.s.constituencies[id]; ok && c.ElectionID == electionID {
			out = append(out, cloneConstituency(c))
		}
	}
	return out, nil
}

func (r registryRepository) RenameConstituency(ctx context.Context, electionID, constituencyID uuid.UUID, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, err := r.s.constituency(electionID, constituencyID)
	if err != nil {
		return err
	}
	for id, other := range r.s.constituencies {
		if id != constituencyID && other.ElectionID == electionID && other.Name == name {
			return domain.ErrDuplicateName
		}
	}
	c.Name = name
	return nil
}

func (r registryRepository) DeleteConstituency(ctx context.Context, electionID, constituencyID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, err := r.s.constituency(electionID, constituencyID)
	if err != nil {
		return err
	}
	for _, d := range c.DistrictIDs {
		delete(r.s.assignments[electionID], d)
	}
	delete(r.s.constituencies, constituencyID)
	r.s.candidacies = slices.DeleteFunc(r.s.candidacies, func(cand domain.Candidacy) bool {
		return cand.ConstituencyID == constituencyID
	})
	return nil
}

func (r registryRepository) AssignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, err := r.s.constituency(electionID, constituencyID)
	if err != nil {
		return err
	}

	owners := r.s.assignments[electionID]
	for _, d := range districtIDs {
		if _, ok := r.s.districts[d]; !ok {
			return domain.ErrDistrictNotFound
		}
		if owner, ok := owners[d]; ok && owner != constituencyID {
			return domain.ErrDistrictAlreadyAssigned
		}
	}

	if owners == nil {
		owners = make(map[uuid.UUID]uuid.UUID)
		r.s.assignments[electionID] = owners
	}
	for _, d := range districtIDs {
		if _, ok := owners[d]; ok {
			continue
		}
		owners[d] = constituencyID
		c.DistrictIDs = append(c.DistrictIDs, d)
	}
	return nil
}

func (r registryRepository) UnassignDistricts(ctx context.Context, electionID, constituencyID uuid.UUID, districtIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, err := r.s.constituency(electionID, constituencyID)
	if err != nil {
		return err
	}

	owners := r.s.assignments[electionID]
	for _, d := range districtIDs {
		if owners[d] == constituencyID {
			delete(owners, d)
		}
	}
	c.DistrictIDs = slices.DeleteFunc(c.DistrictIDs, func(d uuid.UUID) bool {
		return slices.Contains(districtIDs, d)
	})
	return nil
}

func (r registryRepository) ResolveConstituency(ctx context.Context, electionID, districtID uuid.UUID) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cid, ok := r.s.assignments[electionID][districtID]
	if !ok {
		return uuid.Nil, domain.ErrNotEligible
	}
	return cid, nil
}

func (s *Store) constituency(electionID, constituencyID uuid.UUID) (*domain.Constituency, error) {
	if _, ok := s.elections[electionID]; !ok {
		return nil, domain.ErrElectionNotFound
	}
	c, ok := s.constituencies[constituencyID]
	if !ok || c.ElectionID != electionID {
		return nil, domain.ErrConstituencyNotFound
	}
	return c, nil
}
