package services

import (
	"log/slog"
	"time"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
	"github.com/vncsmyrnk/election/internal/platform/metrics"
)

type options struct {
	clock    ports.Clock
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tieBreak domain.TieBreakPolicy
}

type Option func(*options)

func WithClock(clock ports.Clock) Option {
	return func(o *options) { o.clock = clock }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTieBreak replaces the default lowest-citizen-id policy of the tally.
func WithTieBreak(policy domain.TieBreakPolicy) Option {
	return func(o *options) { o.tieBreak = policy }
}

func newOptions(opts []Option) options {
	o := options{
		clock:    systemClock{},
		tieBreak: domain.LowestCitizenID,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = resolveLogger(o.logger)
	return o
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
