package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every up migration in file name order.
func Migrate(ctx context.Context, db *sql.DB) error {
	names, err := migrationNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if !strings.HasSuffix(name, ".up.sql") {
			continue
		}
		if err := execMigration(ctx, db, name); err != nil {
			return err
		}
	}
	return nil
}

// RunMigration executes the single migration file whose name ends with migrationName,
// e.g. "init.down".
func RunMigration(ctx context.Context, db *sql.DB, migrationName string) error {
	names, err := migrationNames()
	if err != nil {
		return err
	}

	pattern := regexp.MustCompile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	for _, name := range names {
		if pattern.MatchString(name) {
			return execMigration(ctx, db, name)
		}
	}
	return fmt.Errorf("migration file not found: %s", migrationName)
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func execMigration(ctx context.Context, db *sql.DB, name string) error {
	content, err := migrations.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("failed to read migration file %s: %w", name, err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	return nil
}
