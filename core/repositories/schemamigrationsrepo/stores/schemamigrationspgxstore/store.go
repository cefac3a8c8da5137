package schemamigrationspgxstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/flowdesk/core/repositories/schemamigrationsrepo"
	"github.com/jrazmi/flowdesk/infrastructure/postgresdb"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) List(ctx context.Context) ([]schemamigrationsrepo.SchemaMigration, error) {
	query := `SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		err = postgresdb.HandlePgError(err)
		if errors.Is(err, postgresdb.ErrUndefinedTable) {
			s.log.DebugContext(ctx, "schema_migrations does not exist yet")
			return []schemamigrationsrepo.SchemaMigration{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	migrations, err := pgx.CollectRows(rows, pgx.RowToStructByName[schemamigrationsrepo.SchemaMigration])
	if err != nil {
		err = postgresdb.HandlePgError(err)
		if errors.Is(err, postgresdb.ErrUndefinedTable) {
			return []schemamigrationsrepo.SchemaMigration{}, nil
		}
		return nil, err
	}
	return migrations, nil
}
