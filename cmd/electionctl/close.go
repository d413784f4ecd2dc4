package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/election/internal/core/services"
)

func closeExpiredCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close-expired",
		Short: "Close every open election whose time limit has elapsed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			// Use a timeout for the job execution to prevent it from hanging indefinitely
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			db, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			elections := services.NewElectionService(
				postgres.NewElectionRepository(db),
				postgres.NewRegistryRepository(db),
				postgres.NewCandidacyRepository(db),
				postgres.NewDistrictRepository(db),
				postgres.NewElectionLocker(db),
				services.WithLogger(logger),
			)

			n, err := elections.CloseExpired(ctx)
			if err != nil {
				return err
			}
			logger.Info("expired elections closed", "event", "close_expired_completed", "component", programName, "count", n)
			return nil
		},
	}
}
