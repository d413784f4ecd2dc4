package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

func TestRegistry_AssignDistrictsKeepsPartition(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	d1, d2, d3 := h.district(t, "D1"), h.district(t, "D2"), h.district(t, "D3")
	e := h.draft(t, "General")
	a := h.constituency(t, e.ID, "A", d1)
	b := h.constituency(t, e.ID, "B", d3)

	err := h.registry.AssignDistricts(ctx, e.ID, b.ID, []uuid.UUID{d2.ID, d1.ID})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrDistrictAlreadyAssigned)

	// all-or-nothing: d2 was not assigned by the failed call
	unassigned, err := h.registry.UnassignedDistricts(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.District{d2}, unassigned)

	require.NoError(t, h.registry.AssignDistricts(ctx, e.ID, a.ID, []uuid.UUID{d1.ID, d2.ID}), "reassigning an owned district is a no-op")

	assertPartition(t, h, e.ID)

	got, err := h.registry.ResolveConstituency(ctx, e.ID, d2.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got)
}

func TestRegistry_SameDistrictInDifferentElections(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	d1 := h.district(t, "D1")
	e1 := h.draft(t, "First")
	e2 := h.draft(t, "Second")
	c1 := h.constituency(t, e1.ID, "A", d1)
	c2 := h.constituency(t, e2.ID, "A", d1)

	got1, err := h.registry.ResolveConstituency(ctx, e1.ID, d1.ID)
	require.NoError(t, err)
	got2, err := h.registry.ResolveConstituency(ctx, e2.ID, d1.ID)
	require.NoError(t, err)
	assert.Equal(t, c1.ID, got1)
	assert.Equal(t, c2.ID, got2)
}

func TestRegistry_NotFound(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	d1 := h.district(t, "D1")
	e := h.draft(t, "General")

	err := h.registry.AssignDistricts(ctx, uuid.New(), uuid.New(), []uuid.UUID{d1.ID})
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)

	err = h.registry.AssignDistricts(ctx, e.ID, uuid.New(), []uuid.UUID{d1.ID})
	assert.ErrorIs(t, err, domain.ErrConstituencyNotFound)

	c, err := h.registry.AddConstituency(ctx, e.ID, "A")
	require.NoError(t, err)
	err = h.registry.AssignDistricts(ctx, e.ID, c.ID, []uuid.UUID{uuid.New()})
	assert.ErrorIs(t, err, domain.ErrDistrictNotFound)

	_, err = h.registry.ResolveConstituency(ctx, e.ID, d1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrNotEligible)

	err = h.registry.AssignDistricts(ctx, e.ID, c.ID, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegistry_UnassignAndRemoveConstituency(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)

	require.NoError(t, h.registry.UnassignDistricts(ctx, g.election.ID, g.a.ID, []uuid.UUID{g.d2.ID}))
	unassigned, err := h.registry.UnassignedDistricts(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.District{g.d2}, unassigned)

	require.NoError(t, h.registry.RemoveConstituency(ctx, g.election.ID, g.b.ID))

	unassigned, err = h.registry.UnassignedDistricts(ctx, g.election.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.District{g.d2, g.d3}, unassigned)

	cands, err := h.store.Candidacies().ListByElection(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Len(t, cands, 2, "candidacies of the removed constituency are dropped")

	constituencies, err := h.registry.ListConstituencies(ctx, g.election.ID)
	require.NoError(t, err)
	require.Len(t, constituencies, 1)
	assert.Equal(t, g.a.ID, constituencies[0].ID)
}

func TestRegistry_RenameConstituency(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	d1, d2 := h.district(t, "D1"), h.district(t, "D2")
	e := h.draft(t, "General")
	a := h.constituency(t, e.ID, "A", d1)
	h.constituency(t, e.ID, "B", d2)

	renamed, err := h.registry.RenameConstituency(ctx, e.ID, a.ID, "  North  ")
	require.NoError(t, err)
	assert.Equal(t, "North", renamed.Name)
	assert.Equal(t, []uuid.UUID{d1.ID}, renamed.DistrictIDs, "districts stay assigned")

	_, err = h.registry.RenameConstituency(ctx, e.ID, a.ID, "B")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = h.registry.RenameConstituency(ctx, e.ID, a.ID, "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.registry.RenameConstituency(ctx, e.ID, uuid.New(), "C")
	assert.ErrorIs(t, err, domain.ErrConstituencyNotFound)

	constituencies, err := h.registry.ListConstituencies(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, constituencies, 2)
	assert.Equal(t, "North", constituencies[0].Name)
}

func TestRegistry_StructureFrozenOutsideDraft(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	d4 := h.district(t, "D4")
	h.open(t, g)

	_, err := h.registry.AddConstituency(ctx, g.election.ID, "C")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	err = h.registry.AssignDistricts(ctx, g.election.ID, g.a.ID, []uuid.UUID{d4.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	err = h.registry.UnassignDistricts(ctx, g.election.ID, g.a.ID, []uuid.UUID{g.d1.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	err = h.registry.RemoveConstituency(ctx, g.election.ID, g.b.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.registry.RenameConstituency(ctx, g.election.ID, g.b.ID, "Renamed")
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	assertPartition(t, h, g.election.ID)
}

func TestRegistry_ConcurrentAssignmentsNeverOverlap(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	d1 := h.district(t, "D1")
	e := h.draft(t, "General")

	const n = 10
	ids := make([]uuid.UUID, n)
	for i := range ids {
		c, err := h.registry.AddConstituency(ctx, e.ID, uuid.NewString())
		require.NoError(t, err)
		ids[i] = c.ID
	}

	errs := make(chan error, n)
	for _, id := range ids {
		go func() {
			errs <- h.registry.AssignDistricts(ctx, e.ID, id, []uuid.UUID{d1.ID})
		}()
	}

	successes := 0
	for range n {
		if err := <-errs; err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, domain.ErrDistrictAlreadyAssigned)
		}
	}
	assert.Equal(t, 1, successes)
	assertPartition(t, h, e.ID)
}

func assertPartition(t *testing.T, h *harness, electionID uuid.UUID) {
	t.Helper()
	constituencies, err := h.registry.ListConstituencies(context.Background(), electionID)
	require.NoError(t, err)

	owner := make(map[uuid.UUID]uuid.UUID)
	for _, c := range constituencies {
		for _, d := range c.DistrictIDs {
			prev, seen := owner[d]
			assert.False(t, seen, "district %s is in %s and %s", d, prev, c.ID)
			owner[d] = c.ID
		}
	}
}
