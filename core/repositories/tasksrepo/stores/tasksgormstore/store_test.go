package tasksgormstore_test

import (
	"context"
	"testing"

	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo/stores/tasksgormstore"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo/tasksrepotest"
	"github.com/jrazmi/flowdesk/infrastructure/sqlitedb"
	"github.com/jrazmi/flowdesk/sdk/logger"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	tasksrepotest.Run(t, func(t *testing.T) tasksrepo.Storer {
		db, err := sqlitedb.New(sqlitedb.Options{Path: sqlitedb.MemoryPath})
		require.NoError(t, err)
		t.Cleanup(func() { _ = sqlitedb.Close(db) })

		store := tasksgormstore.NewStore(logger.NewDiscard(), db)
		require.NoError(t, store.Migrate(context.Background()))
		return store
	})
}
