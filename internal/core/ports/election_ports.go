package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

type ElectionRepository interface {
	Create(ctx context.Context, election *domain.Election) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	List(ctx context.Context, states ...domain.ElectionState) ([]*domain.Election, error)
	UpdateDetails(ctx context.Context, election *domain.Election) error
	// Delete removes a draft election and everything it owns. It reports false
	// when the election exists but is no longer a draft.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// CompareAndSetState moves the election to next only if its current state is
	// one of expected. On mismatch it returns the current election and false.
	CompareAndSetState(ctx context.Context, id uuid.UUID, expected []domain.ElectionState, next domain.ElectionState, at time.Time) (*domain.Election, bool, error)
	ListExpired(ctx context.Context, now time.Time) ([]*domain.Election, error)
}

// ElectionLocker serializes structural changes and readiness checks of one election.
type ElectionLocker interface {
	WithElectionLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, election *domain.Election) error) error
}

type CreateElectionInput struct {
	Name           string
	Date           time.Time
	TimeLimitHours int
}

type UpdateElectionInput struct {
	Name           string
	Date           time.Time
	TimeLimitHours int
}

type ElectionService interface {
	Create(ctx context.Context, input CreateElectionInput) (*domain.Election, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	List(ctx context.Context, states ...domain.ElectionState) ([]*domain.Election, error)
	UpdateDetails(ctx context.Context, id uuid.UUID, input UpdateElectionInput) (*domain.Election, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Schedule(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	Start(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	Stop(ctx context.Context, id uuid.UUID) (*domain.Election, error)
	// CloseExpired closes every open election whose time limit has elapsed and
	// returns how many were closed.
	CloseExpired(ctx context.Context) (int, error)
}
