package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodisland/internal/client/client"
	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
	"github.com/dmitrijs2005/moodisland/internal/logging"
)

// SyncService moves data between the backend and the store.
type SyncService interface {
	// Refresh reloads every section. Sections that fail keep their previous
	// state; the failures are joined into the returned error.
	Refresh(ctx context.Context) error
	LoadScenario(ctx context.Context, id string) error
	SendMessage(ctx context.Context, sessionID, content string) error
	AddDiaryEntry(ctx context.Context, entry models.DiaryEntry, image *Image) (models.DiaryEntry, error)
	Post(ctx context.Context, content, moodEmoji string) error
	Warm(ctx context.Context, postID string) error
}

// Image is an attachment for a new diary entry.
type Image struct {
	ContentType string
	Data        []byte
}

type syncService struct {
	client client.Client
	store  *store.Store
	logger logging.Logger
}

func NewSyncService(c client.Client, st *store.Store, logger logging.Logger) SyncService {
	return &syncService{client: c, store: st, logger: logger.With("component", "sync")}
}

func (s *syncService) Refresh(ctx context.Context) error {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"profile", s.refreshProfile},
		{"dashboard", s.refreshDashboard},
		{"diary", s.refreshDiary},
		{"chat", s.refreshChat},
		{"cbt", s.refreshCbt},
		{"treehole", s.refreshTreehole},
	}

	var errs []error
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
			// a 401 has already ended the session; the rest would fail too
			if errors.Is(err, client.ErrUnauthorized) || ctx.Err() != nil {
				break
			}
		}
	}

	s.store.UpdateGreeting()
	if len(errs) > 0 {
		s.logger.Warn(ctx, "refresh incomplete", "failed", len(errs))
	}
	return errors.Join(errs...)
}

func (s *syncService) refreshProfile(ctx context.Context) error {
	u, err := s.client.Profile(ctx)
	if err != nil {
		return err
	}
	s.store.UpdateUser(*u)
	return nil
}

func (s *syncService) refreshDashboard(ctx context.Context) error {
	d, err := s.client.Dashboard(ctx)
	if err != nil {
		return err
	}
	s.store.UpdateCurrentMood(d.CurrentMood)
	s.store.UpdateStreakDays(d.StreakDays)
	s.store.UpdateWeeklyMoodTrend(d.WeeklyMoodTrend)
	s.store.UpdateAchievements(d.Achievements)
	s.store.UpdateQuickReminders(d.QuickReminders)
	return nil
}

func (s *syncService) refreshDiary(ctx context.Context) error {
	entries, err := s.client.DiaryEntries(ctx)
	if err != nil {
		return err
	}
	s.store.UpdateEntries(entries)
	return nil
}

func (s *syncService) refreshChat(ctx context.Context) error {
	sessions, err := s.client.ChatSessions(ctx)
	if err != nil {
		return err
	}
	s.store.SetChatSessions(sessions)
	if _, ok := s.store.ActiveChatSession(); !ok && len(sessions) > 0 {
		s.store.SetActiveSession(sessions[0].ID)
	}
	return nil
}

func (s *syncService) refreshCbt(ctx context.Context) error {
	scenarios, err := s.client.CbtScenarios(ctx)
	if err != nil {
		return err
	}
	s.store.SetCbtScenarios(scenarios)
	return nil
}

func (s *syncService) refreshTreehole(ctx context.Context) error {
	posts, err := s.client.TreeholePosts(ctx)
	if err != nil {
		return err
	}
	s.store.SetTreeholePosts(posts)
	return nil
}

// LoadScenario fetches steps for a scenario the list endpoint served without them.
func (s *syncService) LoadScenario(ctx context.Context, id string) error {
	sc, ok := s.store.Scenario(id)
	if !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}
	if len(sc.Steps) > 0 {
		return nil
	}
	steps, err := s.client.CbtScenarioSteps(ctx, id)
	if err != nil {
		return fmt.Errorf("load scenario %s: %w", id, err)
	}
	s.store.SetScenarioSteps(id, steps)
	return nil
}

// SendMessage records the user's message locally, then appends the reply.
func (s *syncService) SendMessage(ctx context.Context, sessionID, content string) error {
	if !s.store.AddUserMessage(sessionID, content) {
		return fmt.Errorf("unknown chat session %q", sessionID)
	}
	reply, err := s.client.SendChatMessage(ctx, sessionID, content)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	s.store.AddAiMessage(sessionID, reply.Content)
	return nil
}

func (s *syncService) AddDiaryEntry(ctx context.Context, entry models.DiaryEntry, image *Image) (models.DiaryEntry, error) {
	if image != nil {
		key, err := s.client.UploadDiaryImage(ctx, image.ContentType, image.Data)
		if err != nil {
			return models.DiaryEntry{}, err
		}
		entry.Image = &key
	}
	created, err := s.client.CreateDiaryEntry(ctx, entry)
	if err != nil {
		return models.DiaryEntry{}, fmt.Errorf("create diary entry: %w", err)
	}
	return s.store.AddDiaryEntry(*created), nil
}

func (s *syncService) Post(ctx context.Context, content, moodEmoji string) error {
	p, err := s.client.CreateTreeholePost(ctx, content, moodEmoji)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	s.store.AddTreeholePost(*p)
	return nil
}

// Warm toggles locally first and reverts if the server refuses.
func (s *syncService) Warm(ctx context.Context, postID string) error {
	if !s.store.ToggleWarm(postID) {
		return fmt.Errorf("unknown post %q", postID)
	}
	if _, err := s.client.WarmTreeholePost(ctx, postID); err != nil {
		s.store.ToggleWarm(postID)
		return fmt.Errorf("warm post: %w", err)
	}
	return nil
}
