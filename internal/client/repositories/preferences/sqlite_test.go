package preferences

import (
	"context"
	"database/sql"
	"errors"
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
CREATE TABLE preferences (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet_InsertThenGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "quickEmojisPersisted", []byte(`[{"emoji":"🌟","label":"新心情"}]`)))

	v, err := r.Get(ctx, "quickEmojisPersisted")
	require.NoError(t, err)
	require.JSONEq(t, `[{"emoji":"🌟","label":"新心情"}]`, string(v))
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("old")))
	require.NoError(t, r.Set(ctx, "token", []byte("new")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)
}

func TestList_ReturnsAllPairs(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, []byte{0xAA}, m["a"])
	assert.Equal(t, []byte{0xBB, 0xCC}, m["b"])
}

func TestDelete_RemovesKey_AndIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "customQuickEmojis", []byte("[]")))
	require.NoError(t, r.Delete(ctx, "customQuickEmojis"))

	v, err := r.Get(ctx, "customQuickEmojis")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Delete(ctx, "customQuickEmojis"))
}

func TestClear_RemovesAllKeys(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Clear(ctx))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestWithinTx_CommitsAndRollsBack(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "legacy", []byte("x")))

	boom := errors.New("boom")
	err := r.WithinTx(ctx, func(ctx context.Context, tx Repository) error {
		require.NoError(t, tx.Set(ctx, "new", []byte("y")))
		require.NoError(t, tx.Delete(ctx, "legacy"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := r.Get(ctx, "legacy")
	require.NoError(t, err)
	require.Equal(t, []byte("x"), v, "rollback must keep the legacy key")
	v, err = r.Get(ctx, "new")
	require.NoError(t, err)
	require.Nil(t, v)

	err = r.WithinTx(ctx, func(ctx context.Context, tx Repository) error {
		if err := tx.Set(ctx, "new", []byte("y")); err != nil {
			return err
		}
		return tx.Delete(ctx, "legacy")
	})
	require.NoError(t, err)

	m, err := r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"new": []byte("y")}, m)
}

func TestGet_DBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	v, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	require.Nil(t, v)
	require.Contains(t, err.Error(), "failed to get preference[k]")
}

func TestWriteErrorsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)
	ctx := context.Background()
	driverErr := errors.New("database is locked")

	mock.ExpectExec("INSERT INTO preferences").WithArgs("k", []byte("v")).WillReturnError(driverErr)
	mock.ExpectExec("DELETE FROM preferences WHERE key").WithArgs("k").WillReturnError(driverErr)
	mock.ExpectExec("DELETE FROM preferences").WillReturnError(driverErr)
	mock.ExpectQuery("SELECT key, value FROM preferences").WillReturnError(driverErr)

	err = r.Set(ctx, "k", []byte("v"))
	require.ErrorIs(t, err, driverErr)
	require.Contains(t, err.Error(), "failed to set preference[k]")

	err = r.Delete(ctx, "k")
	require.ErrorIs(t, err, driverErr)
	require.Contains(t, err.Error(), "failed to delete preference[k]")

	err = r.Clear(ctx)
	require.ErrorIs(t, err, driverErr)
	require.Contains(t, err.Error(), "failed to clear preferences")

	_, err = r.List(ctx)
	require.ErrorIs(t, err, driverErr)
	require.Contains(t, err.Error(), "failed to list preferences")

	require.NoError(t, mock.ExpectationsWereMet())
}
