package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type voteService struct {
	elections   ports.ElectionRepository
	registry    ports.RegistryRepository
	candidacies ports.CandidacyRepository
	votes       ports.VoteRepository
	citizens    ports.CitizenDirectory
	parties     ports.PartyDirectory
	keyer       ports.VoterKeyer
	options
}

func NewVoteService(
	elections ports.ElectionRepository,
	registry ports.RegistryRepository,
	candidacies ports.CandidacyRepository,
	votes ports.VoteRepository,
	citizens ports.CitizenDirectory,
	parties ports.PartyDirectory,
	keyer ports.VoterKeyer,
	opts ...Option,
) ports.VoteService {
	return &voteService{
		elections:   elections,
		registry:    registry,
		candidacies: candidacies,
		votes:       votes,
		citizens:    citizens,
		parties:     parties,
		keyer:       keyer,
		options:     newOptions(opts),
	}
}

// CastVote checks, in order: the election is open, the voter has not voted, the
// voter's district resolves to a constituency and the party contests there.
// The final append re-checks state and uniqueness atomically in storage.
func (s *voteService) CastVote(ctx context.Context, input ports.CastVoteInput) error {
	err := s.castVote(ctx, input)
	if err != nil {
		s.metrics.IncrementVotesRejected(string(domain.KindOf(err)))
		s.logger.Warn("vote rejected",
			"event", "vote_rejected",
			"module", "election/ballot",
			"layer", "service",
			"election_id", input.ElectionID,
			"kind", domain.KindOf(err),
			"error", err,
		)
		return err
	}

	s.metrics.IncrementVotesCast()
	s.logger.Info("vote cast",
		"event", "vote_cast",
		"module", "election/ballot",
		"layer", "service",
		"election_id", input.ElectionID,
	)
	return nil
}

func (s *voteService) castVote(ctx context.Context, input ports.CastVoteInput) error {
	now := s.clock.Now()

	election, err := s.openElection(ctx, input.ElectionID)
	if err != nil {
		return err
	}

	key := s.keyer.VoterKey(election.ID, input.CitizenID)
	voted, err := s.votes.HasVoted(ctx, election.ID, key)
	if err != nil {
		return err
	}
	if voted {
		return domain.ErrAlreadyVoted
	}

	constituencyID, err := s.voterConstituency(ctx, election.ID, input.CitizenID)
	if err != nil {
		return err
	}

	candidacies, err := s.candidacies.ListByConstituency(ctx, election.ID, constituencyID)
	if err != nil {
		return err
	}
	if !contests(candidacies, input.PartyID) {
		return domain.ErrNotContesting
	}

	return s.votes.Append(ctx, &domain.Vote{
		ID:             uuid.New(),
		ElectionID:     election.ID,
		VoterKey:       key,
		ConstituencyID: constituencyID,
		PartyID:        input.PartyID,
		CastAt:         now,
	})
}

func (s *voteService) OpenElections(ctx context.Context) ([]*domain.Election, error) {
	open, err := s.elections.List(ctx, domain.StateOpen)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]*domain.Election, 0, len(open))
	for _, e := range open {
		if !e.Expired(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Ballot returns the voter's constituency and the candidacies contesting it.
func (s *voteService) Ballot(ctx context.Context, electionID, citizenID uuid.UUID) (*ports.Ballot, error) {
	election, err := s.openElection(ctx, electionID)
	if err != nil {
		return nil, err
	}

	constituencyID, err := s.voterConstituency(ctx, election.ID, citizenID)
	if err != nil {
		return nil, err
	}
	constituency, err := s.registry.GetConstituency(ctx, election.ID, constituencyID)
	if err != nil {
		return nil, err
	}
	candidacies, err := s.candidacies.ListByConstituency(ctx, election.ID, constituencyID)
	if err != nil {
		return nil, err
	}

	ballot := &ports.Ballot{
		ElectionID:     election.ID,
		ConstituencyID: constituency.ID,
		Constituency:   constituency.Name,
		Entries:        make([]ports.BallotEntry, 0, len(candidacies)),
	}
	for _, c := range candidacies {
		party, err := s.parties.GetParty(ctx, c.PartyID)
		if err != nil {
			return nil, err
		}
		candidate, err := s.citizens.GetByID(ctx, c.CitizenID)
		if err != nil {
			return nil, err
		}
		ballot.Entries = append(ballot.Entries, ports.BallotEntry{
			PartyID:   party.ID,
			PartyName: party.Name,
			LogoURL:   party.LogoURL,
			CitizenID: candidate.ID,
			Candidate: candidate.Name,
		})
	}

	ballot.HasVoted, err = s.votes.HasVoted(ctx, election.ID, s.keyer.VoterKey(election.ID, citizenID))
	if err != nil {
		return nil, err
	}
	return ballot, nil
}

// openElection loads an election that accepts votes. An open election past its
// time limit is closed here instead of waiting for the background sweep.
func (s *voteService) openElection(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	election, err := s.elections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	election, err = s.closeIfExpired(ctx, s.elections, election)
	if err != nil {
		return nil, err
	}
	if election.State != domain.StateOpen {
		return nil, domain.ErrElectionNotOpen
	}
	return election, nil
}

func (s *voteService) voterConstituency(ctx context.Context, electionID, citizenID uuid.UUID) (uuid.UUID, error) {
	citizen, err := s.citizens.GetByID(ctx, citizenID)
	if err != nil {
		return uuid.Nil, err
	}
	constituencyID, err := s.registry.ResolveConstituency(ctx, electionID, citizen.DistrictID)
	if errors.Is(err, domain.ErrNotFound) {
		return uuid.Nil, domain.ErrNotEligible
	}
	return constituencyID, err
}

func contests(candidacies []domain.Candidacy, partyID uuid.UUID) bool {
	for _, c := range candidacies {
		if c.PartyID == partyID {
			return true
		}
	}
	return false
}
