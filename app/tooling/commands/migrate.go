package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path"
	"text/tabwriter"
	"time"

	"github.com/jrazmi/flowdesk/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/flowdesk/core/repositories/schemamigrationsrepo/stores/schemamigrationspgxstore"
	"github.com/jrazmi/flowdesk/infrastructure/postgresdb"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

// Migrate applies the pending migrations in dir of fsys.
func Migrate(ctx context.Context, log *logger.Logger, pool *postgresdb.Pool, fsys fs.FS, dir string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	log.InfoContext(ctx, "migration started", "step", "checking database status")

	if err := postgresdb.StatusCheck(ctx, pool); err != nil {
		return fmt.Errorf("database status check failed: %w", err)
	}

	log.InfoContext(ctx, "database status check successful", "step", "running migrations")

	if err := postgresdb.Migrate(ctx, log, pool, fsys, dir); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	log.InfoContext(ctx, "migrations completed successfully")
	return nil
}

// Status writes one line per migration to w and returns the number still
// pending.
func Status(ctx context.Context, log *logger.Logger, pool *postgresdb.Pool, fsys fs.FS, dir string, w io.Writer) (int, error) {
	files, err := LoadMigrations(fsys, dir)
	if err != nil {
		return 0, err
	}

	repo := schemamigrationsrepo.NewRepository(log, schemamigrationspgxstore.NewStore(log, pool))
	statuses, err := repo.Status(ctx, files)
	if err != nil {
		return 0, err
	}

	if err := WriteStatus(w, statuses); err != nil {
		return 0, err
	}
	return schemamigrationsrepo.Pending(statuses), nil
}

// LoadMigrations reads the version and checksum of each migration file.
func LoadMigrations(fsys fs.FS, dir string) ([]schemamigrationsrepo.Migration, error) {
	names, err := postgresdb.MigrationFiles(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("get migration files: %w", err)
	}

	out := make([]schemamigrationsrepo.Migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, schemamigrationsrepo.Migration{
			Version:  name,
			Checksum: postgresdb.Checksum(content),
		})
	}
	return out, nil
}

func WriteStatus(w io.Writer, statuses []schemamigrationsrepo.Status) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tAPPLIED AT")
	for _, s := range statuses {
		at := "-"
		if s.AppliedAt != nil {
			at = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Version, s.State, at)
	}
	return tw.Flush()
}
