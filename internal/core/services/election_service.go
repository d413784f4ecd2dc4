package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

const closeExpiredConcurrency = 8

type electionService struct {
	elections   ports.ElectionRepository
	registry    ports.RegistryRepository
	candidacies ports.CandidacyRepository
	districts   ports.DistrictRepository
	locker      ports.ElectionLocker
	options
}

func NewElectionService(
	elections ports.ElectionRepository,
	registry ports.RegistryRepository,
	candidacies ports.CandidacyRepository,
	districts ports.DistrictRepository,
	locker ports.ElectionLocker,
	opts ...Option,
) ports.ElectionService {
	return &electionService{
		elections:   elections,
		registry:    registry,
		candidacies: candidacies,
		districts:   districts,
		locker:      locker,
		options:     newOptions(opts),
	}
}

func (s *electionService) Create(ctx context.Context, input ports.CreateElectionInput) (*domain.Election, error) {
	name := strings.TrimSpace(input.Name)
	if violations := detailViolations(name, input.TimeLimitHours); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	election := &domain.Election{
		ID:             uuid.New(),
		Name:           name,
		Date:           input.Date,
		TimeLimitHours: input.TimeLimitHours,
		State:          domain.StateDraft,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.elections.Create(ctx, election); err != nil {
		return nil, err
	}

	s.logger.Info("election created",
		"event", "election_created",
		"module", "election/lifecycle",
		"layer", "service",
		"election_id", election.ID,
	)
	return election, nil
}

func (s *electionService) Get(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	election, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	constituencies, err := s.registry.ListConstituencies(ctx, id)
	if err != nil {
		return nil, err
	}
	candidacies, err := s.candidacies.ListByElection(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range constituencies {
		for _, c := range candidacies {
			if c.ConstituencyID == constituencies[i].ID {
				constituencies[i].Candidacies = append(constituencies[i].Candidacies, c)
			}
		}
	}
	election.Constituencies = constituencies

	return election, nil
}

func (s *electionService) List(ctx context.Context, states ...domain.ElectionState) ([]*domain.Election, error) {
	for _, st := range states {
		if !st.Valid() {
			return nil, domain.NewValidationError(fmt.Sprintf("unknown state %q", st))
		}
	}
	return s.elections.List(ctx, states...)
}

func (s *electionService) UpdateDetails(ctx context.Context, id uuid.UUID, input ports.UpdateElectionInput) (*domain.Election, error) {
	name := strings.TrimSpace(input.Name)
	if violations := detailViolations(name, input.TimeLimitHours); len(violations) > 0 {
		return nil, domain.NewValidationError(violations...)
	}

	var updated *domain.Election
	err := s.locker.WithElectionLock(ctx, id, func(ctx context.Context, e *domain.Election) error {
		if e.State != domain.StateDraft && e.State != domain.StateScheduled {
			return domain.ErrElectionNotEditing
		}
		if e.State == domain.StateScheduled && input.Date.IsZero() {
			return domain.NewValidationError("date is required")
		}

		e.Name = name
		e.Date = input.Date
		e.TimeLimitHours = input.TimeLimitHours
		if err := s.elections.UpdateDetails(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *electionService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.elections.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.InvalidState("only draft elections can be deleted")
	}

	s.metrics.IncrementTransition(string(domain.StateDeleted))
	s.logger.Info("election deleted",
		"event", "election_deleted",
		"module", "election/lifecycle",
		"layer", "service",
		"election_id", id,
	)
	return nil
}

func (s *electionService) Schedule(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.transitionWhenReady(ctx, id, []domain.ElectionState{domain.StateDraft}, domain.StateScheduled)
}

func (s *electionService) Start(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	return s.transitionWhenReady(ctx, id, []domain.ElectionState{domain.StateDraft, domain.StateScheduled}, domain.StateOpen)
}

// transitionWhenReady validates readiness and applies the transition while holding
// the election lock, so no structural change can slip in between.
func (s *electionService) transitionWhenReady(ctx context.Context, id uuid.UUID, from []domain.ElectionState, to domain.ElectionState) (*domain.Election, error) {
	var updated *domain.Election
	err := s.locker.WithElectionLock(ctx, id, func(ctx context.Context, e *domain.Election) error {
		if !slices.Contains(from, e.State) {
			return domain.InvalidState(fmt.Sprintf("cannot move a %s election to %s", e.State, to))
		}
		if err := s.checkReadiness(ctx, e); err != nil {
			return err
		}

		next, ok, err := s.elections.CompareAndSetState(ctx, id, from, to, s.clock.Now())
		if err != nil {
			return err
		}
		if !ok {
			return domain.InvalidState(fmt.Sprintf("cannot move a %s election to %s", next.State, to))
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementTransition(string(to))
	s.logger.Info("election state changed",
		"event", "election_state_changed",
		"module", "election/lifecycle",
		"layer", "service",
		"election_id", id,
		"state", to,
	)
	return updated, nil
}

// Stop closes an open election. Stopping a closed election is a no-op.
func (s *electionService) Stop(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	e, closed, err := s.elections.CompareAndSetState(ctx, id, []domain.ElectionState{domain.StateOpen}, domain.StateClosed, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if !closed {
		if e.State == domain.StateClosed {
			return e, nil
		}
		return nil, domain.InvalidState(fmt.Sprintf("cannot close a %s election", e.State))
	}

	s.metrics.IncrementTransition(string(domain.StateClosed))
	s.logger.Info("election closed",
		"event", "election_closed",
		"module", "election/lifecycle",
		"layer", "service",
		"election_id", id,
		"reason", "stopped",
	)
	return e, nil
}

func (s *electionService) CloseExpired(ctx context.Context) (int, error) {
	expired, err := s.elections.ListExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired elections: %w", err)
	}

	var closed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(closeExpiredConcurrency)

	for _, e := range expired {
		g.Go(func() error {
			ok, err := closeIfOpen(gctx, s.elections, e.ID, s.clock.Now())
			if err != nil {
				return fmt.Errorf("failed to close election %s: %w", e.ID, err)
			}
			if ok {
				closed.Add(1)
				s.logger.Info("election closed",
					"event", "election_closed",
					"module", "election/lifecycle",
					"layer", "service",
					"election_id", e.ID,
					"reason", "time_limit",
				)
			}
			return nil
		})
	}

	err = g.Wait()
	n := int(closed.Load())
	s.metrics.AddExpiredClosed(n)
	for range n {
		s.metrics.IncrementTransition(string(domain.StateClosed))
	}
	return n, err
}

func (s *electionService) checkReadiness(ctx context.Context, e *domain.Election) error {
	constituencies, err := s.registry.ListConstituencies(ctx, e.ID)
	if err != nil {
		return err
	}
	candidacies, err := s.candidacies.ListByElection(ctx, e.ID)
	if err != nil {
		return err
	}
	districts, err := s.districts.List(ctx)
	if err != nil {
		return err
	}

	if violations := domain.ReadinessViolations(e, constituencies, candidacies, districts); len(violations) > 0 {
		return domain.NewValidationError(violations...)
	}
	return nil
}

// closeIfOpen reports whether this call performed the open to closed transition.
func closeIfOpen(ctx context.Context, elections ports.ElectionRepository, id uuid.UUID, at time.Time) (bool, error) {
	_, ok, err := elections.CompareAndSetState(ctx, id, []domain.ElectionState{domain.StateOpen}, domain.StateClosed, at)
	if errors.Is(err, domain.ErrElectionNotFound) {
		return false, nil
	}
	return ok, err
}

// closeIfExpired closes an open election past its time limit instead of waiting
// for the background sweep, and returns the election as stored afterwards.
func (o options) closeIfExpired(ctx context.Context, elections ports.ElectionRepository, e *domain.Election) (*domain.Election, error) {
	now := o.clock.Now()
	if !e.Expired(now) {
		return e, nil
	}

	closed, err := closeIfOpen(ctx, elections, e.ID, now)
	if err != nil {
		return nil, err
	}
	if closed {
		o.metrics.IncrementTransition(string(domain.StateClosed))
		o.metrics.AddExpiredClosed(1)
		o.logger.Info("election closed",
			"event", "election_closed",
			"module", "election/lifecycle",
			"layer", "service",
			"election_id", e.ID,
			"reason", "time_limit",
		)
	}
	return elections.GetByID(ctx, e.ID)
}

func detailViolations(name string, timeLimitHours int) []string {
	var violations []string
	if name == "" {
		violations = append(violations, "name is required")
	}
	if timeLimitHours < 0 {
		violations = append(violations, "time limit cannot be negative")
	}
	if timeLimitHours > domain.MaxTimeLimitHours {
		violations = append(violations, fmt.Sprintf("time limit cannot exceed %d hours", domain.MaxTimeLimitHours))
	}
	return violations
}
