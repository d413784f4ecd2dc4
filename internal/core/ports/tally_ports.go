package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

// ResultsCache holds final results of closed elections. It is never the source of truth.
type ResultsCache interface {
	Get(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResults, bool, error)
	Put(ctx context.Context, results *domain.ElectionResults) error
}

type TallyService interface {
	// ComputeResults is provisional while the election is open and final once closed.
	ComputeResults(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResults, error)
	// PublishedResults only answers for closed elections.
	PublishedResults(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResults, error)
}
