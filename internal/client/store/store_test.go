package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/repositories/preferences"
)

var fixedNow = time.Date(2025, 9, 28, 8, 30, 15, 123_000_000, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestStore(t *testing.T, prefs preferences.Repository) *Store {
	t.Helper()
	if prefs == nil {
		prefs = preferences.NewMemoryRepository()
	}
	return New(context.Background(), prefs, WithClock(fixedClock))
}

// failingRepo fails every call with err.
type failingRepo struct {
	err  error
	sets int
}

func (r *failingRepo) Get(context.Context, string) ([]byte, error) { return nil, r.err }
func (r *failingRepo) Set(context.Context, string, []byte) error {
	r.sets++
	return r.err
}
func (r *failingRepo) Delete(context.Context, string) error             { return r.err }
func (r *failingRepo) List(context.Context) (map[string][]byte, error) { return nil, r.err }
func (r *failingRepo) Clear(context.Context) error                      { return r.err }

func TestNew_Defaults(t *testing.T) {
	s := newTestStore(t, nil)
	st := s.Snapshot()

	assert.False(t, st.IsAuthenticated)
	assert.Empty(t, st.Token)
	assert.Equal(t, DefaultGreeting, st.Greeting)
	assert.Equal(t, defaultUser(), st.User)
	assert.Equal(t, defaultMood(), st.Dashboard.CurrentMood)
	assert.Equal(t, DefaultQuickEmojis(), st.Diary.QuickEmojis)
	assert.Empty(t, st.Diary.Entries)
	assert.NotEmpty(t, st.Chat.QuickPrompts)
}

func TestNew_LoadsPersistedQuickEmojis(t *testing.T) {
	ctx := context.Background()
	prefs := preferences.NewMemoryRepository()
	require.NoError(t, prefs.Set(ctx, QuickEmojisKey, []byte(`[{"emoji":"🌟","label":"新心情","custom":true}]`)))

	s := New(ctx, prefs)

	want := []models.QuickEmoji{{Emoji: "🌟", Label: "新心情", Custom: true}}
	if diff := cmp.Diff(want, s.Snapshot().Diary.QuickEmojis); diff != "" {
		t.Errorf("quick emojis mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_BrokenPersistedValueKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	prefs := preferences.NewMemoryRepository()
	require.NoError(t, prefs.Set(ctx, QuickEmojisKey, []byte(`{not json`)))

	s := New(ctx, prefs, WithClock(fixedClock))

	assert.Equal(t, DefaultQuickEmojis(), s.Snapshot().Diary.QuickEmojis)
	status := s.LastPersistStatus()
	assert.Equal(t, QuickEmojisKey, status.Key)
	assert.Error(t, status.Err)
}

func TestNew_ReadFailureKeepsDefaults(t *testing.T) {
	boom := errors.New("disk gone")
	s := New(context.Background(), &failingRepo{err: boom}, WithClock(fixedClock))

	assert.Equal(t, DefaultQuickEmojis(), s.Snapshot().Diary.QuickEmojis)
	assert.ErrorIs(t, s.LastPersistStatus().Err, boom)
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s := newTestStore(t, nil)
	img := "diary/1.png"
	s.UpdateEntries([]models.DiaryEntry{{ID: "e1", Date: "2025-09-28", Tags: []string{"a"}, Image: &img}})
	s.SetCbtScenarios([]models.CbtScenario{{
		ID: "sc1",
		Steps: models.Steps{models.SingleSelectStep{
			StepHeader: models.StepHeader{ID: "s1"},
			Options:    []models.Option{{Label: "x", Value: "x"}},
		}},
	}})

	snap := s.Snapshot()
	snap.Diary.Entries[0].Tags[0] = "changed"
	*snap.Diary.Entries[0].Image = "changed"
	snap.Diary.QuickEmojis[0].Label = "changed"
	snap.Cbt.Scenarios[0].Steps[0].(models.SingleSelectStep).Options[0].Label = "changed"

	again := s.Snapshot()
	assert.Equal(t, "a", again.Diary.Entries[0].Tags[0])
	assert.Equal(t, "diary/1.png", *again.Diary.Entries[0].Image)
	assert.Equal(t, "超充实", again.Diary.QuickEmojis[0].Label)
	assert.Equal(t, "x", again.Cbt.Scenarios[0].Steps[0].(models.SingleSelectStep).Options[0].Label)
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t, nil)

	var got []Action
	unsubscribe := s.Subscribe(func(a Action) { got = append(got, a) })

	s.Authenticate("tok")
	s.AddUserMessage("missing", "hi")
	s.Logout()
	unsubscribe()
	s.Authenticate("again")

	assert.Equal(t, []Action{ActionAuthenticate, ActionLogout}, got)
}

func TestSubscribe_CallbackMayReadStore(t *testing.T) {
	s := newTestStore(t, nil)

	var token string
	s.Subscribe(func(Action) { token = s.Token() })
	s.Authenticate("tok")

	assert.Equal(t, "tok", token)
}

func TestCalendar_FirstEntryPerDateWins(t *testing.T) {
	s := newTestStore(t, nil)
	s.UpdateEntries([]models.DiaryEntry{
		{Date: "2025-09-28", MoodEmoji: "😊"},
		{Date: "2025-09-28", MoodEmoji: "😔"},
		{Date: "2025-09-27", MoodEmoji: "🤩"},
		{MoodEmoji: "🥱"},
	})

	assert.Equal(t, map[string]string{"2025-09-28": "😊", "2025-09-27": "🤩"}, s.Calendar())
}

func TestGetters(t *testing.T) {
	s := newTestStore(t, nil)
	s.SetChatSessions([]models.ChatSession{{ID: "c1", Title: "睡前聊聊"}})
	s.SetCbtScenarios([]models.CbtScenario{{ID: "exam-anxiety", Title: "考前焦虑缓解"}})

	_, ok := s.ActiveChatSession()
	assert.False(t, ok)

	s.SetActiveSession("c1")
	sess, ok := s.ActiveChatSession()
	require.True(t, ok)
	assert.Equal(t, "睡前聊聊", sess.Title)

	sc, ok := s.Scenario("exam-anxiety")
	require.True(t, ok)
	assert.Equal(t, "考前焦虑缓解", sc.Title)

	_, ok = s.Scenario("nope")
	assert.False(t, ok)
}

func TestGreetingForHour(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "晚安"},
		{4, "晚安"},
		{5, "早安"},
		{10, "早安"},
		{11, "午安"},
		{13, "午安"},
		{14, "下午好"},
		{17, "下午好"},
		{18, "晚上好"},
		{21, "晚上好"},
		{22, "晚安"},
		{23, "晚安"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GreetingForHour(tt.hour), "hour %d", tt.hour)
	}
}

func TestUpdateGreeting_UsesClock(t *testing.T) {
	s := newTestStore(t, nil)
	s.UpdateGreeting()
	assert.Equal(t, "早安", s.Snapshot().Greeting)
}
