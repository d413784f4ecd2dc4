package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type tallyService struct {
	elections   ports.ElectionRepository
	registry    ports.RegistryRepository
	candidacies ports.CandidacyRepository
	votes       ports.VoteRepository
	cache       ports.ResultsCache
	options
}

// NewTallyService builds the tally service. cache may be nil.
func NewTallyService(
	elections ports.ElectionRepository,
	registry ports.RegistryRepository,
	candidacies ports.CandidacyRepository,
	votes ports.VoteRepository,
	cache ports.ResultsCache,
	opts ...Option,
) ports.TallyService {
	return &tallyService{
		elections:   elections,
		registry:    registry,
		candidacies: candidacies,
		votes:       votes,
		cache:       cache,
		options:     newOptions(opts),
	}
}

func (s *tallyService) ComputeResults(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResults, error) {
	election, err := s.election(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.State != domain.StateOpen && election.State != domain.StateClosed {
		return nil, domain.ErrResultsUnavailable
	}
	return s.results(ctx, election)
}

func (s *tallyService) PublishedResults(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResults, error) {
	election, err := s.election(ctx, electionID)
	if err != nil {
		return nil, err
	}
	if election.State != domain.StateClosed {
		return nil, domain.InvalidState("results are published once the election is closed")
	}
	return s.results(ctx, election)
}

// election loads the election, closing it first when its time limit has elapsed.
func (s *tallyService) election(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	election, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.closeIfExpired(ctx, s.elections, election)
}

func (s *tallyService) results(ctx context.Context, election *domain.Election) (*domain.ElectionResults, error) {
	final := election.State == domain.StateClosed

	if final && s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, election.ID)
		if err != nil {
			s.logger.Warn("results cache read failed",
				"event", "results_cache_failed",
				"module", "election/tally",
				"layer", "service",
				"election_id", election.ID,
				"error", err,
			)
		} else if ok {
			return cached, nil
		}
	}

	start := time.Now()
	constituencies, err := s.registry.ListConstituencies(ctx, election.ID)
	if err != nil {
		return nil, err
	}
	candidacies, err := s.candidacies.ListByElection(ctx, election.ID)
	if err != nil {
		return nil, err
	}
	votes, err := s.votes.ListByElection(ctx, election.ID)
	if err != nil {
		return nil, err
	}

	results := domain.Tally(election, constituencies, candidacies, votes, s.tieBreak)
	s.metrics.ObserveTallyDuration(time.Since(start))

	if final && s.cache != nil {
		if err := s.cache.Put(ctx, results); err != nil {
			s.logger.Warn("results cache write failed",
				"event", "results_cache_failed",
				"module", "election/tally",
				"layer", "service",
				"election_id", election.ID,
				"error", err,
			)
		}
	}
	return results, nil
}
