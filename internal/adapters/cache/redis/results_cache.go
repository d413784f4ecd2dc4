package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const resultsKeyPrefix = "election:results:"

// ResultsCache stores final results of closed elections as JSON.
type ResultsCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.ResultsCache = (*ResultsCache)(nil)

// NewClient parses url and checks the connection. An empty url disables the cache.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewResultsCache builds a cache whose entries expire after ttl. A zero ttl keeps them.
func NewResultsCache(client *redis.Client, ttl time.Duration) *ResultsCache {
	return &ResultsCache{client: client, ttl: ttl}
}

func (c *ResultsCache) Get(ctx context.Context, electionID uuid.UUID) (*domain.ElectionResults, bool, error) {
	raw, err := c.client.Get(ctx, resultsKeyPrefix+electionID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var results domain.ElectionResults
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, fmt.Errorf("decode cached results: %w", err)
	}
	return &results, true, nil
}

// Put only accepts final results.
func (c *ResultsCache) Put(ctx context.Context, results *domain.ElectionResults) error {
	if results.Provisional || results.State != domain.StateClosed {
		return nil
	}

	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return c.client.Set(ctx, resultsKeyPrefix+results.ElectionID.String(), raw, c.ttl).Err()
}
