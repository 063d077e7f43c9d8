// Package store is the client's single owner of application state.
//
// A Store is built once per process with New and handed to whoever needs it
// (views, services, the HTTP client's auth hooks); there is no package-level
// instance. State changes only through the named action methods, and readers
// get deep copies, so nothing outside the package can mutate the graph.
//
// Persistence covers only the quick-emoji list (plus the legacy-key
// migration). It is best effort: failures never surface as errors from
// actions, they are logged and recorded in LastPersistStatus.
//
// Store is safe for concurrent use. Concurrent writers resolve last-writer-wins.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/moodisland/internal/logging"
)

// State is the whole client-side object graph.
type State struct {
	IsAuthenticated bool                    `json:"isAuthenticated"`
	Token           string                  `json:"-"`
	Greeting        string                  `json:"greeting"`
	User            models.User             `json:"user"`
	Dashboard       models.DashboardSummary `json:"dashboardSummary"`
	Diary           models.Diary            `json:"diary"`
	Chat            models.Chat             `json:"chat"`
	Cbt             models.Cbt              `json:"cbt"`
	Treehole        models.Treehole         `json:"treehole"`
}

// PersistStatus describes the most recent write to the preference store.
type PersistStatus struct {
	Key string
	At  time.Time
	Err error
}

type Store struct {
	mu    sync.RWMutex
	state State

	prefs  preferences.Repository
	logger logging.Logger
	now    func() time.Time

	statusMu sync.Mutex
	status   PersistStatus

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Action)
}

type Option func(*Store)

// WithClock replaces time.Now for greetings and message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New builds a store with placeholder state. A quick-emoji list previously
// persisted in prefs replaces the built-in one; a broken value is ignored.
func New(ctx context.Context, prefs preferences.Repository, opts ...Option) *Store {
	s := &Store{
		state:  defaultState(),
		prefs:  prefs,
		logger: logging.Discard(),
		now:    time.Now,
		subs:   make(map[int]func(Action)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "store")
	s.loadQuickEmojis(ctx)
	return s
}

func (s *Store) loadQuickEmojis(ctx context.Context) {
	if s.prefs == nil {
		return
	}
	raw, err := s.prefs.Get(ctx, QuickEmojisKey)
	if err != nil {
		s.recordPersist(ctx, QuickEmojisKey, err)
		return
	}
	if len(raw) == 0 {
		return
	}
	var list []models.QuickEmoji
	if err := json.Unmarshal(raw, &list); err != nil {
		s.recordPersist(ctx, QuickEmojisKey, err)
		return
	}
	s.state.Diary.QuickEmojis = list
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneState(s.state)
}

// Token returns the bearer token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// ActiveChatSession finds the session ActiveSessionID points at.
func (s *Store) ActiveChatSession() (models.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := sessionIndex(s.state.Chat.Sessions, s.state.Chat.ActiveSessionID)
	if i < 0 {
		return models.ChatSession{}, false
	}
	return cloneSession(s.state.Chat.Sessions[i]), true
}

// Scenario finds a CBT scenario by id.
func (s *Store) Scenario(id string) (models.CbtScenario, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := scenarioIndex(s.state.Cbt.Scenarios, id)
	if i < 0 {
		return models.CbtScenario{}, false
	}
	return cloneScenario(s.state.Cbt.Scenarios[i]), true
}

// Calendar maps each diary date to the mood emoji of its first entry.
func (s *Store) Calendar() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CalendarOf(s.state.Diary.Entries)
}

// CalendarOf builds the date to emoji map from a list of entries, newest
// first.
func CalendarOf(entries []models.DiaryEntry) map[string]string {
	cal := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, seen := cal[e.Date]; !seen && e.Date != "" {
			cal[e.Date] = e.MoodEmoji
		}
	}
	return cal
}

// LastPersistStatus reports the outcome of the latest preference write.
func (s *Store) LastPersistStatus() PersistStatus {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

// Subscribe registers fn to run after every state-changing action.
// Callbacks run outside the store lock, on the caller's goroutine.
func (s *Store) Subscribe(fn func(Action)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(a Action) {
	s.subMu.Lock()
	fns := make([]func(Action), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(a)
	}
}

func (s *Store) mutate(a Action, fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	s.mu.Unlock()
	s.notify(a)
}

// mutateIf applies fn and notifies only when fn reports a change.
func (s *Store) mutateIf(a Action, fn func(st *State) bool) bool {
	s.mu.Lock()
	changed := fn(&s.state)
	s.mu.Unlock()
	if changed {
		s.notify(a)
	}
	return changed
}

func (s *Store) recordPersist(ctx context.Context, key string, err error) {
	s.statusMu.Lock()
	s.status = PersistStatus{Key: key, At: s.now(), Err: err}
	s.statusMu.Unlock()

	if err != nil {
		s.logger.Warn(ctx, "preference persistence failed", "key", key, "err", err)
	}
}
