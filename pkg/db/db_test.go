package db

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (db *DB, cleanup func()) {
	t.Helper()

	// create temp file for test database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	tmpFile.Close()

	cfg := Config{
		DSN: "file:" + tmpFile.Name() + "?mode=rwc",
	}

	db, err = New(cfg)
	require.NoError(t, err)

	cleanup = func() {
		db.Close()
		os.Remove(tmpFile.Name())
	}

	return db, cleanup
}

func TestDB_InitSchema(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	// schema should already be initialized by New()
	var count int
	err := db.conn.Get(&count, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name IN ('cards', 'interactions')
	`)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDB_Ping(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Ping(context.Background()))
}

func TestDB_InTransaction(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("commit on success", func(t *testing.T) {
		err := db.InTransaction(ctx, func(tx *sqlx.Tx) error {
			_, err := tx.Exec(`INSERT INTO cards (guid, source_type, title) VALUES ('g1', 'rss', 'tx card')`)
			return err
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.conn.Get(&count, "SELECT COUNT(*) FROM cards WHERE guid = 'g1'"))
		assert.Equal(t, 1, count)
	})

	t.Run("rollback on error", func(t *testing.T) {
		err := db.InTransaction(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.Exec(`INSERT INTO cards (guid, source_type, title) VALUES ('g2', 'rss', 'doomed card')`); err != nil {
				return err
			}
			return errors.New("force rollback")
		})
		require.Error(t, err)

		var count int
		require.NoError(t, db.conn.Get(&count, "SELECT COUNT(*) FROM cards WHERE guid = 'g2'"))
		assert.Zero(t, count)
	})
}

func TestIsLockError(t *testing.T) {
	assert.False(t, isLockError(nil))
	assert.False(t, isLockError(errors.New("some other error")))
	assert.True(t, isLockError(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.True(t, isLockError(errors.New("database table is locked")))
}
