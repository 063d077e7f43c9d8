package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodisland/internal/client/config"
	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/moodisland/internal/client/router"
	"github.com/dmitrijs2005/moodisland/internal/client/services"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
	"github.com/dmitrijs2005/moodisland/internal/client/views"
	"github.com/dmitrijs2005/moodisland/internal/logging"
)

type fakeAuth struct {
	st *store.Store

	mu        sync.Mutex
	lastCreds models.Credentials
	loginErr  error
	restored  bool
	pingErr   error
	pings     int
}

func (f *fakeAuth) Login(ctx context.Context, creds models.Credentials) error {
	f.lastCreds = creds
	if f.loginErr != nil {
		return f.loginErr
	}
	f.st.Authenticate("tok")
	f.st.UpdateUser(models.User{Nickname: "林舟", StudentID: creds.StudentID})
	return nil
}

func (f *fakeAuth) Register(ctx context.Context, creds models.Credentials) error {
	f.lastCreds = creds
	f.st.Authenticate("tok")
	f.st.UpdateUser(models.User{Nickname: creds.Nickname, StudentID: creds.StudentID, Email: creds.Email})
	return nil
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.st.Logout()
	return nil
}

func (f *fakeAuth) Restore(ctx context.Context) (bool, error) {
	if f.restored {
		f.st.Authenticate("tok")
	}
	return f.restored, nil
}

func (f *fakeAuth) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeAuth) pingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

func (f *fakeAuth) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

type fakeSync struct {
	st *store.Store

	refreshes  int
	refreshErr error
	loaded     []string
	entries    []models.DiaryEntry
	images     []*services.Image
	posts      []string
	moods      []string
	warmed     []string
}

func (f *fakeSync) Refresh(ctx context.Context) error {
	f.refreshes++
	return f.refreshErr
}

func (f *fakeSync) LoadScenario(ctx context.Context, id string) error {
	f.loaded = append(f.loaded, id)
	return nil
}

func (f *fakeSync) SendMessage(ctx context.Context, sessionID, content string) error {
	f.st.AddUserMessage(sessionID, content)
	f.st.AddAiMessage(sessionID, "我在听。")
	return nil
}

func (f *fakeSync) AddDiaryEntry(ctx context.Context, entry models.DiaryEntry, image *services.Image) (models.DiaryEntry, error) {
	f.entries = append(f.entries, entry)
	f.images = append(f.images, image)
	return f.st.AddDiaryEntry(entry), nil
}

func (f *fakeSync) Post(ctx context.Context, content, moodEmoji string) error {
	f.posts = append(f.posts, content)
	f.moods = append(f.moods, moodEmoji)
	f.st.AddTreeholePost(models.TreeholePost{Content: content, MoodEmoji: moodEmoji})
	return nil
}

func (f *fakeSync) Warm(ctx context.Context, postID string) error {
	f.warmed = append(f.warmed, postID)
	return nil
}

type testApp struct {
	*App
	fa  *fakeAuth
	fs  *fakeSync
	mem *preferences.MemoryRepository
	buf *bytes.Buffer
}

// newTestApp wires an App over fakes and an in-memory preference store.
// input feeds the prompts.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	return newTestAppWithPrefs(t, input, preferences.NewMemoryRepository())
}

func newTestAppWithPrefs(t *testing.T, input string, prefs *preferences.MemoryRepository) *testApp {
	t.Helper()

	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Ephemeral = true

	now := func() time.Time { return time.Date(2025, 9, 28, 9, 0, 0, 0, time.UTC) }
	st := store.New(context.Background(), prefs, store.WithClock(now))
	fa := &fakeAuth{st: st}
	fs := &fakeSync{st: st}
	out := &bytes.Buffer{}

	a := &App{
		config: &cfg,
		logger: logging.Discard(),
		prefs:  prefs,
		store:  st,
		router: router.New(views.Factories()),
		auth:   fa,
		sync:   fs,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}
	a.watchStore()
	t.Cleanup(func() { _ = a.Close() })

	return &testApp{App: a, fa: fa, fs: fs, mem: prefs, buf: out}
}

// silence swaps the output and input seams for the duration of the test.
func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint, origPassword := printlnFn, getPassword
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(toString(v))
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	getPassword = func(*bufio.Reader, io.Writer) ([]byte, error) { return []byte("secret"), nil }
	t.Cleanup(func() {
		printlnFn = origPrint
		getPassword = origPassword
	})
	return &printed
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case error:
		return s.Error()
	default:
		return fmt.Sprint(v)
	}
}
