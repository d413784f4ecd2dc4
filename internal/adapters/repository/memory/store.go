// Package memory keeps every repository in process memory. It backs the
// service tests and single-node development runs.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type Store struct {
	mu sync.Mutex

	elections         map[uuid.UUID]*domain.Election
	electionOrder     []uuid.UUID
	districts         map[uuid.UUID]domain.District
	districtOrder     []uuid.UUID
	constituencies    map[uuid.UUID]*domain.Constituency
	constituencyOrder []uuid.UUID
	// electionID -> districtID -> constituencyID
	assignments map[uuid.UUID]map[uuid.UUID]uuid.UUID
	candidacies []domain.Candidacy
	votes       map[uuid.UUID][]domain.Vote
	voterKeys   map[uuid.UUID]map[string]struct{}
	parties     map[uuid.UUID]*domain.Party
	memberships map[uuid.UUID]uuid.UUID
	citizens    map[uuid.UUID]*domain.Citizen
	nids        map[string]uuid.UUID
	admins      map[string]*domain.Admin

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		elections:      make(map[uuid.UUID]*domain.Election),
		districts:      make(map[uuid.UUID]domain.District),
		constituencies: make(map[uuid.UUID]*domain.Constituency),
		assignments:    make(map[uuid.UUID]map[uuid.UUID]uuid.UUID),
		votes:          make(map[uuid.UUID][]domain.Vote),
		voterKeys:      make(map[uuid.UUID]map[string]struct{}),
		parties:        make(map[uuid.UUID]*domain.Party),
		memberships:    make(map[uuid.UUID]uuid.UUID),
		citizens:       make(map[uuid.UUID]*domain.Citizen),
		nids:           make(map[string]uuid.UUID),
		admins:         make(map[string]*domain.Admin),
		locks:          make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) Elections() ports.ElectionRepository { return electionRepository{s} }
func (s *Store) Districts() ports.DistrictRepository { return districtRepository{s} }
func (s *Store) Registry() ports.RegistryRepository { return registryRepository{s} }
func (s *Store) Candidacies() ports.CandidacyRepository { return candidacyRepository{s} }
func (s *Store) Votes() ports.VoteRepository { return voteRepository{s} }
func (s *Store) Parties() ports.PartyRepository { return partyRepository{s} }
func (s *Store) Citizens() ports.CitizenRepository { return citizenRepository{s} }
func (s *Store) Admins() ports.AdminRepository { return adminRepository{s} }
func (s *Store) Locker() ports.ElectionLocker { return s }

// WithElectionLock holds a per-election mutex for the duration of fn.
func (s *Store) WithElectionLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, election *domain.Election) error) error {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	defer l.Unlock()

	election, err := s.Elections().GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fn(ctx, election)
}

func cloneElection(e *domain.Election) *domain.Election {
	c := *e
	c.Constituencies = nil
	return &c
}

func cloneConstituency(c *domain.Constituency) domain.Constituency {
	out := *c
	out.DistrictIDs = append([]uuid.UUID(nil), c.DistrictIDs...)
	out.Candidacies = nil
	return out
}
