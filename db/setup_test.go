package db

import (
	"path/filepath"
	"testing"

	"github.com/projethon/projethon/internal/apperror"
	"github.com/projethon/projethon/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAndMigrate_Sqlite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "test.db"))

	require.NoError(t, ConnectDatabase())
	t.Cleanup(func() { DB = nil })

	require.NoError(t, MigrateDatabase())

	migrator := DB.Migrator()
	for _, table := range []interface{}{
		&models.User{}, &models.Project{}, &models.Review{}, &models.Attachment{},
	} {
		assert.True(t, migrator.HasTable(table))
	}

	// Re-running bootstrap against a migrated schema is a no-op.
	require.NoError(t, MigrateDatabase())

	assert.True(t, Available())
	conn, err := Conn()
	require.NoError(t, err)
	assert.NotNil(t, conn)
}

func TestConnectDatabase_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	assert.Error(t, ConnectDatabase())
}

func TestConnectDatabase_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	assert.Error(t, ConnectDatabase())
}

func TestConn_Unavailable(t *testing.T) {
	prev := DB
	DB = nil
	t.Cleanup(func() { DB = prev })

	assert.False(t, Available())

	_, err := Conn()
	assert.ErrorIs(t, err, apperror.ErrBackendUnavailable)
}
