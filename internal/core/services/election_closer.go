package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vncsmyrnk/election/internal/core/ports"
)

// ElectionCloser periodically closes open elections whose time limit has elapsed.
type ElectionCloser struct {
	elections ports.ElectionService
	interval  time.Duration
	logger    *slog.Logger
}

func NewElectionCloser(elections ports.ElectionService, interval time.Duration, logger *slog.Logger) *ElectionCloser {
	return &ElectionCloser{
		elections: elections,
		interval:  interval,
		logger:    resolveLogger(logger),
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (c *ElectionCloser) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		c.sweep(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *ElectionCloser) sweep(ctx context.Context) {
	n, err := c.elections.CloseExpired(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Error("failed to close expired elections",
			"event", "close_expired_failed",
			"module", "election/lifecycle",
			"layer", "worker",
			"error", err,
		)
		return
	}
	if n > 0 {
		c.logger.Info("closed expired elections",
			"event", "close_expired_completed",
			"module", "election/lifecycle",
			"layer", "worker",
			"closed", n,
		)
	}
}
