package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 11, 5, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	store       *memory.Store
	clock       *fakeClock
	keyer       ports.VoterKeyer
	elections   ports.ElectionService
	registry    ports.RegistryService
	candidacies ports.CandidacyService
	votes       ports.VoteService
	tally       ports.TallyService
	parties     ports.PartyService
}

func newHarness(t *testing.T, extra ...Option) *harness {
	t.Helper()

	store := memory.NewStore()
	clock := newFakeClock()
	keyer := NewVoterKeyer([]byte("test-secret"))
	opts := append([]Option{
		WithClock(clock),
		WithLogger(discardLogger()),
	}, extra...)

	return &harness{
		store:       store,
		clock:       clock,
		keyer:       keyer,
		elections:   NewElectionService(store.Elections(), store.Registry(), store.Candidacies(), store.Districts(), store.Locker(), opts...),
		registry:    NewRegistryService(store.Elections(), store.Registry(), store.Districts(), store.Locker(), opts...),
		candidacies: NewCandidacyService(store.Registry(), store.Candidacies(), store.Parties(), store.Citizens(), store.Locker(), opts...),
		votes:       NewVoteService(store.Elections(), store.Registry(), store.Candidacies(), store.Votes(), store.Citizens(), store.Parties(), keyer, opts...),
		tally:       NewTallyService(store.Elections(), store.Registry(), store.Candidacies(), store.Votes(), nil, opts...),
		parties:     NewPartyService(store.Parties(), store.Citizens(), opts...),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (h *harness) district(t *testing.T, name string) domain.District {
	t.Helper()
	d := domain.District{ID: uuid.New(), Name: name}
	require.NoError(t, h.store.Districts().Save(context.Background(), &d))
	return d
}

func (h *harness) citizen(t *testing.T, name string, district domain.District) domain.Citizen {
	t.Helper()
	c := domain.Citizen{ID: uuid.New(), NID: uuid.NewString(), Name: name, DistrictID: district.ID, CreatedAt: h.clock.Now()}
	require.NoError(t, h.store.Citizens().Create(context.Background(), &c))
	return c
}

func (h *harness) party(t *testing.T, name string, president domain.Citizen) *domain.Party {
	t.Helper()
	p, err := h.parties.Create(context.Background(), ports.CreatePartyInput{Name: name, PresidentID: president.ID})
	require.NoError(t, err)
	return p
}

func (h *harness) draft(t *testing.T, name string) *domain.Election {
	t.Helper()
	e, err := h.elections.Create(context.Background(), ports.CreateElectionInput{
		Name:           name,
		Date:           time.Date(2025, 11, 5, 0, 0, 0, 0, time.UTC),
		TimeLimitHours: 24,
	})
	require.NoError(t, err)
	return e
}

func (h *harness) constituency(t *testing.T, electionID uuid.UUID, name string, districts ...domain.District) *domain.Constituency {
	t.Helper()
	ctx := context.Background()
	c, err := h.registry.AddConstituency(ctx, electionID, name)
	require.NoError(t, err)

	ids := make([]uuid.UUID, len(districts))
	for i, d := range districts {
		ids[i] = d.ID
	}
	require.NoError(t, h.registry.AssignDistricts(ctx, electionID, c.ID, ids))
	return c
}

func (h *harness) nominate(t *testing.T, electionID, constituencyID uuid.UUID, party *domain.Party, candidate uuid.UUID) {
	t.Helper()
	_, err := h.candidacies.AddCandidacy(context.Background(), ports.AddCandidacyInput{
		ElectionID:     electionID,
		ConstituencyID: constituencyID,
		PartyID:        party.ID,
		CitizenID:      candidate,
	})
	require.NoError(t, err)
}

// generalElection builds the two-constituency election used across tests:
// A covers D1 and D2 with P1 (X) and P2 (Y); B covers D3 with P3 (Z).
type generalElection struct {
	election   *domain.Election
	a, b       *domain.Constituency
	d1, d2, d3 domain.District
	p1, p2, p3 *domain.Party
	x, y, z    domain.Citizen
	voterD1    domain.Citizen
	voterD2    domain.Citizen
	voterD3    domain.Citizen
}

func (h *harness) generalElection(t *testing.T) *generalElection {
	t.Helper()
	g := &generalElection{}

	g.d1 = h.district(t, "D1")
	g.d2 = h.district(t, "D2")
	g.d3 = h.district(t, "D3")

	g.x = h.citizen(t, "X", g.d1)
	g.y = h.citizen(t, "Y", g.d2)
	g.z = h.citizen(t, "Z", g.d3)
	g.voterD1 = h.citizen(t, "Voter D1", g.d1)
	g.voterD2 = h.citizen(t, "Voter D2", g.d2)
	g.voterD3 = h.citizen(t, "Voter D3", g.d3)

	g.p1 = h.party(t, "P1", g.x)
	g.p2 = h.party(t, "P2", g.y)
	g.p3 = h.party(t, "P3", g.z)

	g.election = h.draft(t, "General-2025")
	g.a = h.constituency(t, g.election.ID, "A", g.d1, g.d2)
	g.b = h.constituency(t, g.election.ID, "B", g.d3)

	h.nominate(t, g.election.ID, g.a.ID, g.p1, g.x.ID)
	h.nominate(t, g.election.ID, g.a.ID, g.p2, g.y.ID)
	h.nominate(t, g.election.ID, g.b.ID, g.p3, g.z.ID)

	return g
}

func (h *harness) open(t *testing.T, g *generalElection) {
	t.Helper()
	_, err := h.elections.Start(context.Background(), g.election.ID)
	require.NoError(t, err)
}

func (h *harness) vote(electionID, citizenID, partyID uuid.UUID) error {
	return h.votes.CastVote(context.Background(), ports.CastVoteInput{
		ElectionID: electionID,
		CitizenID:  citizenID,
		PartyID:    partyID,
	})
}
