package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/election/internal/config"
)

const programName = "electionctl"

var globalFlags = struct {
	debug bool
}{}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if globalFlags.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// openDB connects with the POSTGRES_* settings and checks the connection.
func openDB(ctx context.Context) (*sql.DB, error) {
	pg, err := config.LoadPostgres()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", pg.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Administrative tasks for the election service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(
		migrateCommand(),
		seedDistrictsCommand(),
		closeExpiredCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		slog.Error(err.Error(), "component", programName)
		os.Exit(1)
	}
}
