package notifications

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atomist-global-seeds/blockstack-browser/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := InitDatabase(context.Background(), filepath.Join(t.TempDir(), "gateway.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db)
}

func TestSQLiteRepository_CreateAndList(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	a := &models.Notification{Kind: "verify", Email: "a@b.co", Link: "http://x/sign-up?verified=a@b.co", CreatedAt: base}
	b := &models.Notification{Kind: "recovery", Email: "c@d.co", Link: "http://x/seed?encrypted=ff", IdentityName: "c", CreatedAt: base.Add(time.Second)}
	c := &models.Notification{Kind: "restore", Email: "a@b.co", Link: "http://x/sign-in?seed=ff", IdentityName: "a", CreatedAt: base.Add(2 * time.Second)}
	for _, n := range []*models.Notification{a, b, c} {
		require.NoError(t, repo.Create(ctx, n))
		assert.NotEqual(t, uuid.Nil, n.ID)
	}

	all, err := repo.List(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"verify", "recovery", "restore"}, []string{all[0].Kind, all[1].Kind, all[2].Kind})
	assert.Equal(t, *a, all[0])

	mine, err := repo.List(ctx, "a@b.co", 10)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "a", mine[1].IdentityName)

	limited, err := repo.List(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := repo.List(ctx, "nobody@x.io", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestSQLiteRepository_CreateSetsDefaults(t *testing.T) {
	repo := newRepo(t)
	n := &models.Notification{Kind: "verify", Email: "a@b.co", Link: "l"}
	require.NoError(t, repo.Create(context.Background(), n))
	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestSQLiteRepository_DBErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLiteRepository(db)
	boom := errors.New("disk full")

	mock.ExpectExec("INSERT INTO notifications").WillReturnError(boom)
	err = repo.Create(context.Background(), &models.Notification{Kind: "verify"})
	require.ErrorIs(t, err, boom)

	mock.ExpectQuery("SELECT id, kind").WillReturnError(boom)
	_, err = repo.List(context.Background(), "", 10)
	require.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
}
