package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/moodisland/internal/client/client"
	"github.com/dmitrijs2005/moodisland/internal/client/config"
	"github.com/dmitrijs2005/moodisland/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/moodisland/internal/client/router"
	"github.com/dmitrijs2005/moodisland/internal/client/services"
	"github.com/dmitrijs2005/moodisland/internal/client/storage"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
	"github.com/dmitrijs2005/moodisland/internal/client/views"
	"github.com/dmitrijs2005/moodisland/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const (
	pingTimeout                = 3 * time.Second
	defaultOnlineCheckInterval = 3 * time.Second
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	prefs  preferences.Repository
	store  *store.Store
	router *router.Router
	auth   services.AuthService
	sync   services.SyncService

	reader *bufio.Reader
	out    io.Writer

	mu       sync.RWMutex
	mode     Mode
	nickname string
	page     router.Match

	unsubscribe func()
}

// NewApp wires the preference store, state store, HTTP client and services
// described by c. Preferences live in SQLite at c.DBPath unless c.Ephemeral
// is set.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	a := &App{
		config: c,
		logger: logger.With("module", "cli"),
		router: router.New(views.Factories()),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	prefs, db, err := openPreferences(ctx, c)
	if err != nil {
		a.logger.Error(ctx, "error initializing database", "path", c.DBPath, "err", err)
		return nil, err
	}
	a.prefs, a.db = prefs, db

	a.store = store.New(ctx, a.prefs, store.WithLogger(logger))

	base, err := c.APIEndpoint()
	if err != nil {
		a.Close()
		return nil, err
	}
	apiClient, err := client.NewHTTPClient(base,
		client.WithAuthHeader(c.AuthHeader),
		client.WithTimeout(c.RequestTimeout),
		client.WithSession(a.store, a.store),
		client.WithNotifier(client.NotifierFunc(a.notify)),
		client.WithLogger(logger),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.auth = services.NewAuthService(apiClient, a.store, a.prefs, logger)
	a.sync = services.NewSyncService(apiClient, a.store, logger)
	a.watchStore()
	return a, nil
}

// openPreferences returns the preference repository selected by c. db is
// nil for ephemeral sessions.
func openPreferences(ctx context.Context, c *config.Config) (preferences.Repository, *sql.DB, error) {
	if c.Ephemeral {
		return preferences.NewMemoryRepository(), nil, nil
	}
	db, err := storage.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return preferences.NewSQLiteRepository(db), db, nil
}

// watchStore keeps the prompt status in step with the store.
func (a *App) watchStore() {
	a.syncNickname()
	a.unsubscribe = a.store.Subscribe(func(act store.Action) {
		a.logger.Debug(context.Background(), "state changed", "action", string(act))
		switch act {
		case store.ActionAuthenticate, store.ActionLogout, store.ActionUpdateUser:
			a.syncNickname()
		}
	})
}

func (a *App) syncNickname() {
	name := ""
	if st := a.store.Snapshot(); st.IsAuthenticated {
		name = st.User.Nickname
	}
	a.mu.Lock()
	a.nickname = name
	a.mu.Unlock()
}

func (a *App) notify(_ context.Context, msg string) {
	printlnFn("⚠", msg)
}

// Close releases the subscription and the local database.
func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Bootstrap runs the startup sequence: migrate legacy preferences, restore a
// remembered session and, when that worked, load the user's data.
func (a *App) Bootstrap(ctx context.Context) {
	if res := a.store.MigrateOldCustomQuickEmojis(ctx); res.Err != nil {
		a.logger.Warn(ctx, "quick emoji migration failed", "err", res.Err)
	}

	restored, err := a.auth.Restore(ctx)
	if err != nil {
		a.logger.Warn(ctx, "restore session failed", "err", err)
	}
	if restored {
		if err := a.sync.Refresh(ctx); err != nil {
			a.logger.Warn(ctx, "initial refresh incomplete", "err", err)
		}
	}
	a.store.UpdateGreeting()
}

// Run bootstraps the app, starts the connectivity watcher and blocks in the
// REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	a.Bootstrap(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	printlnFn("欢迎来到心情小岛 (输入 help 查看命令)")
	start := "/"
	if a.isLoggedIn() {
		start = "/dashboard"
	}
	if err := a.Go(ctx, start); err != nil {
		return err
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) currentMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) getStatus() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	s := ""
	if a.nickname != "" {
		s = a.nickname + " "
	}
	if a.mode != "" {
		s = s + string(a.mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// app between online and offline mode. A non-positive interval falls back
// to the default. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		a.logger.Warn(ctx, "invalid online check interval, using default",
			"interval", interval, "default", defaultOnlineCheckInterval)
		interval = defaultOnlineCheckInterval
	}
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.auth.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
