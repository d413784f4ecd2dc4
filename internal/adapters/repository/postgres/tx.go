package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// executor returns the transaction carried by ctx, if any, so repository calls
// made under an election lock join the lock's transaction.
func executor(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// withTx runs fn in the transaction carried by ctx or in a new one.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, q querier) error) error {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx, tx)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx), tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type electionLocker struct {
	db *sql.DB
}

// NewElectionLocker serializes work on one election with a row lock held for
// the duration of a transaction.
func NewElectionLocker(db *sql.DB) ports.ElectionLocker {
	return &electionLocker{db: db}
}

func (l *electionLocker) WithElectionLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, election *domain.Election) error) error {
	return withTx(ctx, l.db, func(ctx context.Context, q querier) error {
		query := `SELECT ` + electionColumns + ` FROM elections WHERE id = $1 FOR UPDATE`
		election, err := scanElection(q.QueryRowContext(ctx, query, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrElectionNotFound
			}
			return fmt.Errorf("failed to lock election: %w", err)
		}
		return fn(ctx, election)
	})
}
