package taskspgxstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo/stores/taskspgxstore"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo/tasksrepotest"
	"github.com/jrazmi/flowdesk/infrastructure/postgresdb"
	"github.com/jrazmi/flowdesk/schema"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MalformedIDIsNoOp(t *testing.T) {
	// No pool: a malformed id must never reach the database.
	store := taskspgxstore.NewStore(logger.NewDiscard(), nil)
	ctx := context.Background()
	title := "x"

	assert.NoError(t, store.Update(ctx, "not-a-uuid", "u1", tasksrepo.TaskChanges{Title: &title}))
	assert.NoError(t, store.Delete(ctx, "42", "u1"))
}

// Set FLOWDESK_TEST_DATABASE_URL to a disposable database to run these.
func TestStore(t *testing.T) {
	dsn := os.Getenv("FLOWDESK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("FLOWDESK_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	log := logger.NewDiscard()

	pool, err := postgresdb.New(postgresdb.Options{}, postgresdb.WithDatabaseURL(dsn))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgresdb.Migrate(ctx, log, pool, schema.MigrationsFS, schema.MigrationsDir))

	tasksrepotest.Run(t, func(t *testing.T) tasksrepo.Storer {
		_, err := pool.Exec(ctx, "TRUNCATE tasks")
		require.NoError(t, err)
		return taskspgxstore.NewStore(log, pool)
	})
}
