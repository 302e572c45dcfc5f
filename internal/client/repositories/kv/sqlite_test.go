package kv

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE kv (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSQLite_SetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k1", `["a"]`))

	v, found, err := r.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `["a"]`, v)
}

func TestSQLite_GetMissing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, found, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, v)
}

func TestSQLite_SetOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", "old"))
	require.NoError(t, r.Set(ctx, "k", "new"))

	v, _, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestSQLite_DeleteIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", "1"))
	require.NoError(t, r.Delete(ctx, "x"))

	_, found, err := r.Get(ctx, "x")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, r.Delete(ctx, "x"))
}

func TestSQLite_UpdateAppliesFn(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	err := r.Update(ctx, "n", func(cur string, found bool) (string, error) {
		assert.False(t, found)
		return cur + "a", nil
	})
	require.NoError(t, err)

	err = r.Update(ctx, "n", func(cur string, found bool) (string, error) {
		assert.True(t, found)
		return cur + "b", nil
	})
	require.NoError(t, err)

	v, _, err := r.Get(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, "ab", v)
}

func TestSQLite_UpdateFnErrorWritesNothing(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "k", "keep"))

	boom := errors.New("boom")
	err := r.Update(ctx, "k", func(string, bool) (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)

	v, _, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "keep", v)
}

func TestSQLite_ErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Close())

	_, _, err := r.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]")

	err = r.Set(ctx, "k", "v")
	require.ErrorContains(t, err, "failed to set kv[k]")

	err = r.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete kv[k]")
}

func TestSQLite_UpdateRollsBackOnReadError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM kv WHERE key = ?`)).
		WithArgs("k").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	r := NewSQLiteRepository(db)
	err = r.Update(context.Background(), "k", func(string, bool) (string, error) {
		t.Fatal("fn must not run when the read fails")
		return "", nil
	})
	require.ErrorContains(t, err, "failed to get kv[k]")
	require.NoError(t, mock.ExpectationsWereMet())
}
