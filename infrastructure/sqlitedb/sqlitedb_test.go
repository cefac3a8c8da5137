package sqlitedb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jrazmi/flowdesk/infrastructure/sqlitedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   uint
	Body string
}

func TestNew_MemoryKeepsDataAcrossQueries(t *testing.T) {
	db, err := sqlitedb.New(sqlitedb.Options{Path: sqlitedb.MemoryPath})
	require.NoError(t, err)
	defer sqlitedb.Close(db)

	require.NoError(t, db.AutoMigrate(&note{}))
	require.NoError(t, db.Create(&note{Body: "hello"}).Error)

	var count int64
	require.NoError(t, db.Model(&note{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, sqlitedb.StatusCheck(context.Background(), db))
}

func TestNew_FilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flowdesk.db")
	db, err := sqlitedb.New(sqlitedb.Options{Path: path})
	require.NoError(t, err)
	require.NoError(t, sqlitedb.Close(db))
	assert.FileExists(t, path)
}
