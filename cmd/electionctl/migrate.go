package main

import (
	"github.com/spf13/cobra"
	"github.com/vncsmyrnk/election/internal/adapters/repository/postgres"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [name]",
		Short: "Apply every up migration, or only the one whose file name ends with name (e.g. init.down)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			db, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if len(args) == 1 {
				if err := postgres.RunMigration(ctx, db, args[0]); err != nil {
					return err
				}
				logger.Info("migration applied", "event", "migration_applied", "component", programName, "name", args[0])
				return nil
			}

			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			logger.Info("migrations applied", "event", "migration_applied", "component", programName)
			return nil
		},
	}
}
