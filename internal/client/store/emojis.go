package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/repositories/preferences"
)

var ErrNoPreferences = errors.New("no preference store configured")

// MigrationResult describes one run of MigrateOldCustomQuickEmojis.
// Skipped is set when there was nothing to do.
type MigrationResult struct {
	Migrated int
	Skipped  bool
	Err      error
}

// AddQuickEmoji appends a custom shortcut and persists the list. It reports
// false when either argument is empty or the emoji is already listed.
func (s *Store) AddQuickEmoji(ctx context.Context, emoji, label string) bool {
	if emoji == "" || label == "" {
		return false
	}
	ok := s.mutateIf(ActionAddQuickEmoji, func(st *State) bool {
		if quickEmojiIndex(st.Diary.QuickEmojis, emoji) >= 0 {
			return false
		}
		st.Diary.QuickEmojis = append(st.Diary.QuickEmojis, models.QuickEmoji{
			Emoji:  emoji,
			Label:  label,
			Custom: true,
		})
		return true
	})
	if ok {
		_ = s.PersistQuickEmojis(ctx)
	}
	return ok
}

// RemoveQuickEmoji drops the first entry with the given emoji and persists.
func (s *Store) RemoveQuickEmoji(ctx context.Context, emoji string) bool {
	ok := s.mutateIf(ActionRemoveQuickEmoji, func(st *State) bool {
		i := quickEmojiIndex(st.Diary.QuickEmojis, emoji)
		if i < 0 {
			return false
		}
		list := st.Diary.QuickEmojis
		st.Diary.QuickEmojis = append(list[:i:i], list[i+1:]...)
		return true
	})
	if ok {
		_ = s.PersistQuickEmojis(ctx)
	}
	return ok
}

// PersistQuickEmojis writes the current quick-emoji list to the preference
// store. The outcome is recorded in LastPersistStatus either way; callers
// may ignore the returned error.
func (s *Store) PersistQuickEmojis(ctx context.Context) error {
	s.mu.RLock()
	list := cloneSlice(s.state.Diary.QuickEmojis)
	s.mu.RUnlock()

	err := s.writeQuickEmojis(ctx, s.prefs, list)
	s.recordPersist(ctx, QuickEmojisKey, err)
	return err
}

func (s *Store) writeQuickEmojis(ctx context.Context, repo preferences.Repository, list []models.QuickEmoji) error {
	if repo == nil {
		return ErrNoPreferences
	}
	if list == nil {
		list = []models.QuickEmoji{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode quick emojis: %w", err)
	}
	return repo.Set(ctx, QuickEmojisKey, b)
}

// legacyQuickEmoji is the record shape stored under the legacy key.
type legacyQuickEmoji struct {
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// MigrateOldCustomQuickEmojis moves custom shortcuts saved under the legacy
// key into the current list. It does nothing when the current key already
// holds data or the legacy key is absent. On success the merged list is
// written under the current key and the legacy key is removed; with a
// transactional preference store both happen atomically. On failure the
// stored data and the in-memory list are left as they were.
func (s *Store) MigrateOldCustomQuickEmojis(ctx context.Context) MigrationResult {
	if s.prefs == nil {
		return MigrationResult{Skipped: true}
	}

	var (
		res    MigrationResult
		merged []models.QuickEmoji
	)

	run := func(ctx context.Context, repo preferences.Repository) error {
		current, err := repo.Get(ctx, QuickEmojisKey)
		if err != nil {
			return err
		}
		if len(current) > 0 {
			res.Skipped = true
			return nil
		}

		raw, err := repo.Get(ctx, LegacyQuickEmojisKey)
		if err != nil {
			return err
		}
		if raw == nil {
			res.Skipped = true
			return nil
		}

		var legacy []legacyQuickEmoji
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return fmt.Errorf("decode %s: %w", LegacyQuickEmojisKey, err)
		}

		s.mu.RLock()
		list := cloneSlice(s.state.Diary.QuickEmojis)
		s.mu.RUnlock()

		added := 0
		for _, old := range legacy {
			if old.Emoji == "" || old.Label == "" {
				continue
			}
			if quickEmojiIndex(list, old.Emoji) >= 0 {
				continue
			}
			list = append(list, models.QuickEmoji{Emoji: old.Emoji, Label: old.Label, Custom: true})
			added++
		}

		if err := s.writeQuickEmojis(ctx, repo, list); err != nil {
			return err
		}
		if err := repo.Delete(ctx, LegacyQuickEmojisKey); err != nil {
			return err
		}

		res.Migrated = added
		merged = list
		return nil
	}

	var err error
	if tx, ok := s.prefs.(preferences.Transactor); ok {
		err = tx.WithinTx(ctx, run)
	} else {
		err = run(ctx, s.prefs)
	}

	if err != nil {
		res = MigrationResult{Err: err}
		s.recordPersist(ctx, QuickEmojisKey, err)
		return res
	}
	if res.Skipped {
		return res
	}

	s.recordPersist(ctx, QuickEmojisKey, nil)
	s.mutate(ActionMigrateQuickEmojis, func(st *State) { st.Diary.QuickEmojis = merged })
	s.logger.Info(ctx, "legacy quick emojis migrated", "count", res.Migrated)
	return res
}

func quickEmojiIndex(list []models.QuickEmoji, emoji string) int {
	for i, q := range list {
		if q.Emoji == emoji {
			return i
		}
	}
	return -1
}
