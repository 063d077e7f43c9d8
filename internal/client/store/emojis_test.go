package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/moodisland/internal/client/storage"
)

func newSQLitePrefs(t *testing.T) *preferences.SQLiteRepository {
	t.Helper()
	db, err := storage.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return preferences.NewSQLiteRepository(db)
}

func storedQuickEmojis(t *testing.T, prefs preferences.Repository) []models.QuickEmoji {
	t.Helper()
	raw, err := prefs.Get(context.Background(), QuickEmojisKey)
	require.NoError(t, err)
	require.NotNil(t, raw)
	var list []models.QuickEmoji
	require.NoError(t, json.Unmarshal(raw, &list))
	return list
}

func TestAddQuickEmoji(t *testing.T) {
	ctx := context.Background()
	prefs := preferences.NewMemoryRepository()
	s := newTestStore(t, prefs)

	require.True(t, s.AddQuickEmoji(ctx, "🌟", "新心情"))

	list := s.Snapshot().Diary.QuickEmojis
	require.Len(t, list, 7)
	assert.Equal(t, models.QuickEmoji{Emoji: "🌟", Label: "新心情", Custom: true}, list[6])
	assert.Equal(t, list, storedQuickEmojis(t, prefs))
	assert.NoError(t, s.LastPersistStatus().Err)
	assert.True(t, s.LastPersistStatus().At.Equal(fixedNow))
}

func TestAddQuickEmoji_Rejects(t *testing.T) {
	ctx := context.Background()
	prefs := preferences.NewMemoryRepository()
	s := newTestStore(t, prefs)
	before := s.Snapshot().Diary.QuickEmojis

	assert.False(t, s.AddQuickEmoji(ctx, "", "空"))
	assert.False(t, s.AddQuickEmoji(ctx, "🌟", ""))
	assert.False(t, s.AddQuickEmoji(ctx, "😊", "重复"))

	assert.Equal(t, before, s.Snapshot().Diary.QuickEmojis)
	raw, err := prefs.Get(ctx, QuickEmojisKey)
	require.NoError(t, err)
	assert.Nil(t, raw, "rejected adds must not persist")
}

func TestRemoveQuickEmoji(t *testing.T) {
	ctx := context.Background()
	prefs := preferences.NewMemoryRepository()
	s := newTestStore(t, prefs)

	assert.False(t, s.RemoveQuickEmoji(ctx, "🌟"))
	assert.Len(t, s.Snapshot().Diary.QuickEmojis, 6)

	require.True(t, s.RemoveQuickEmoji(ctx, "😐"))
	list := s.Snapshot().Diary.QuickEmojis
	require.Len(t, list, 5)
	for _, q := range list {
		assert.NotEqual(t, "😐", q.Emoji)
	}
	assert.Equal(t, list, storedQuickEmojis(t, prefs))
}

func TestPersistFailureIsRecordedNotRaised(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	repo := &failingRepo{err: boom}
	s := New(ctx, repo, WithClock(fixedClock))

	require.True(t, s.AddQuickEmoji(ctx, "🌟", "新心情"))
	assert.Len(t, s.Snapshot().Diary.QuickEmojis, 7)
	assert.Equal(t, 1, repo.sets)

	status := s.LastPersistStatus()
	assert.Equal(t, QuickEmojisKey, status.Key)
	assert.ErrorIs(t, status.Err, boom)
	assert.ErrorIs(t, s.PersistQuickEmojis(ctx), boom)
}

func TestPersistWithoutPreferences(t *testing.T) {
	s := New(context.Background(), nil)
	assert.ErrorIs(t, s.PersistQuickEmojis(context.Background()), ErrNoPreferences)
	assert.True(t, s.MigrateOldCustomQuickEmojis(context.Background()).Skipped)
}

func TestPersistAndReconstruct(t *testing.T) {
	ctx := context.Background()
	prefs := newSQLitePrefs(t)

	s := New(ctx, prefs, WithClock(fixedClock))
	require.True(t, s.AddQuickEmoji(ctx, "🌟", "新心情"))
	require.NoError(t, s.PersistQuickEmojis(ctx))

	rebuilt := New(ctx, prefs, WithClock(fixedClock))

	count := 0
	for _, q := range rebuilt.Snapshot().Diary.QuickEmojis {
		if q.Emoji == "🌟" {
			count++
			assert.Equal(t, models.QuickEmoji{Emoji: "🌟", Label: "新心情", Custom: true}, q)
		}
	}
	assert.Equal(t, 1, count)
}

func TestMigrate(t *testing.T) {
	repos := map[string]func(t *testing.T) preferences.Repository{
		"memory": func(*testing.T) preferences.Repository { return preferences.NewMemoryRepository() },
		"sqlite": func(t *testing.T) preferences.Repository { return newSQLitePrefs(t) },
	}

	for name, newRepo := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			prefs := newRepo(t)
			legacy := `[{"emoji":"😊","label":"dup"},{"emoji":"🌈","label":"彩虹"},{"emoji":"","label":"空"},{"emoji":"🍵"}]`
			require.NoError(t, prefs.Set(ctx, LegacyQuickEmojisKey, []byte(legacy)))

			s := New(ctx, prefs, WithClock(fixedClock))
			res := s.MigrateOldCustomQuickEmojis(ctx)

			require.NoError(t, res.Err)
			assert.False(t, res.Skipped)
			assert.Equal(t, 1, res.Migrated)

			list := s.Snapshot().Diary.QuickEmojis
			require.Len(t, list, 7)
			assert.Equal(t, models.QuickEmoji{Emoji: "🌈", Label: "彩虹", Custom: true}, list[6])
			assert.Equal(t, "被照亮", list[1].Label, "existing entries keep their labels")
			assert.Equal(t, list, storedQuickEmojis(t, prefs))

			raw, err := prefs.Get(ctx, LegacyQuickEmojisKey)
			require.NoError(t, err)
			assert.Nil(t, raw)

			second := s.MigrateOldCustomQuickEmojis(ctx)
			assert.True(t, second.Skipped)
			assert.NoError(t, second.Err)
			assert.Equal(t, list, s.Snapshot().Diary.QuickEmojis)
		})
	}
}

func TestMigrate_NewKeyPresentIsNoop(t *testing.T) {
	ctx := context.Background()
	prefs := preferences.NewMemoryRepository()
	require.NoError(t, prefs.Set(ctx, QuickEmojisKey, []byte(`[{"emoji":"🌟","label":"新心情","custom":true}]`)))
	require.NoError(t, prefs.Set(ctx, LegacyQuickEmojisKey, []byte(`[{"emoji":"🌈","label":"彩虹"}]`)))

	s := New(ctx, prefs)
	res := s.MigrateOldCustomQuickEmojis(ctx)

	assert.True(t, res.Skipped)
	raw, err := prefs.Get(ctx, LegacyQuickEmojisKey)
	require.NoError(t, err)
	assert.NotNil(t, raw, "legacy key is left alone")
}

func TestMigrate_LegacyAbsent(t *testing.T) {
	ctx := context.Background()
	prefs := preferences.NewMemoryRepository()
	s := New(ctx, prefs)

	res := s.MigrateOldCustomQuickEmojis(ctx)

	assert.True(t, res.Skipped)
	raw, err := prefs.Get(ctx, QuickEmojisKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestMigrate_BrokenLegacyValue(t *testing.T) {
	ctx := context.Background()
	prefs := newSQLitePrefs(t)
	require.NoError(t, prefs.Set(ctx, LegacyQuickEmojisKey, []byte(`not json`)))

	s := New(ctx, prefs, WithClock(fixedClock))
	res := s.MigrateOldCustomQuickEmojis(ctx)

	require.Error(t, res.Err)
	assert.Zero(t, res.Migrated)
	assert.Equal(t, DefaultQuickEmojis(), s.Snapshot().Diary.QuickEmojis)
	assert.Error(t, s.LastPersistStatus().Err)

	raw, err := prefs.Get(ctx, LegacyQuickEmojisKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`not json`), raw)
	raw, err = prefs.Get(ctx, QuickEmojisKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

// deleteFailingRepo lets writes through but fails deletes, so the migration
// has to roll its write back.
type deleteFailingRepo struct {
	*preferences.MemoryRepository
}

func (r deleteFailingRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, repo preferences.Repository) error) error {
	return r.MemoryRepository.WithinTx(ctx, func(ctx context.Context, repo preferences.Repository) error {
		return fn(ctx, deleteFailingStaged{repo})
	})
}

type deleteFailingStaged struct{ preferences.Repository }

func (deleteFailingStaged) Delete(context.Context, string) error { return errors.New("locked") }

func TestMigrate_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	mem := preferences.NewMemoryRepository()
	require.NoError(t, mem.Set(ctx, LegacyQuickEmojisKey, []byte(`[{"emoji":"🌈","label":"彩虹"}]`)))

	s := New(ctx, deleteFailingRepo{mem}, WithClock(fixedClock))
	res := s.MigrateOldCustomQuickEmojis(ctx)

	require.Error(t, res.Err)
	raw, err := mem.Get(ctx, QuickEmojisKey)
	require.NoError(t, err)
	assert.Nil(t, raw, "write must not survive a failed delete")
	assert.Len(t, s.Snapshot().Diary.QuickEmojis, 6)
}
