package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/moodisland/internal/client/client"
	"github.com/dmitrijs2005/moodisland/internal/client/models"
	"github.com/dmitrijs2005/moodisland/internal/client/router"
	"github.com/dmitrijs2005/moodisland/internal/client/services"
	"github.com/dmitrijs2005/moodisland/internal/client/views"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in")

// Login authenticates with a student id and password. The id may be given
// as the first argument; missing values are prompted for. A reachable but
// failing backend leaves the mode alone; an unreachable one switches to
// offline.
func (a *App) Login(ctx context.Context, args []string) error {
	studentID, err := argOrPrompt(args, 0, a.reader, "请输入学号", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	err = a.auth.Login(ctx, models.Credentials{StudentID: studentID, Password: string(password)})
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return err
	}
	a.setMode(ModeOnline)

	printlnFn("登录成功")
	return a.afterSignIn(ctx)
}

// Register creates an account from "<studentId> <email> <nickname>" and
// signs in with it.
func (a *App) Register(ctx context.Context, args []string) error {
	studentID, err := argOrPrompt(args, 0, a.reader, "请输入学号", a.out)
	if err != nil {
		return err
	}
	email, err := argOrPrompt(args, 1, a.reader, "请输入邮箱", a.out)
	if err != nil {
		return err
	}
	nickname, err := argOrPrompt(args, 2, a.reader, "请输入昵称", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer clear(password)

	creds := models.Credentials{
		StudentID: studentID,
		Email:     email,
		Nickname:  nickname,
		Password:  string(password),
	}
	if err := a.auth.Register(ctx, creds); err != nil {
		return err
	}

	printlnFn("注册成功")
	return a.afterSignIn(ctx)
}

func (a *App) afterSignIn(ctx context.Context) error {
	if err := a.sync.Refresh(ctx); err != nil {
		a.logger.Warn(ctx, "refresh after sign-in incomplete", "err", err)
	}
	return a.Go(ctx, "/dashboard")
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	printlnFn("已退出登录")
	return a.Go(ctx, "/login")
}

// Go resolves path and renders the page. Opening a scenario whose steps have
// not been fetched loads them first.
func (a *App) Go(ctx context.Context, path string) error {
	m, err := a.router.Resolve(path)
	if err != nil {
		return err
	}

	if m.View == router.ViewCbtScenario && a.isLoggedIn() {
		if err := a.sync.LoadScenario(ctx, m.Props["id"]); err != nil {
			a.logger.Warn(ctx, "load scenario failed", "id", m.Props["id"], "err", err)
		}
	}

	v, err := a.router.View(m.View)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.page = m
	a.mu.Unlock()

	return views.RenderPage(a.out, m, v, a.store.Snapshot())
}

// redraw renders the current page again after a change.
func (a *App) redraw(ctx context.Context, onlyOn ...router.ViewName) error {
	a.mu.RLock()
	m := a.page
	a.mu.RUnlock()

	if m.View == "" {
		return nil
	}
	for _, name := range onlyOn {
		if m.View == name {
			return a.Go(ctx, m.Path)
		}
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	err := a.sync.Refresh(ctx)
	if rerr := a.redraw(ctx, router.ViewDashboard, router.ViewDiary, router.ViewChat,
		router.ViewCbtList, router.ViewCbtScenario, router.ViewProfile); rerr != nil {
		return errors.Join(err, rerr)
	}
	return err
}

// Emoji manages the custom quick-emoji list: "add <emoji> <label>" or
// "rm <emoji>".
func (a *App) Emoji(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: emoji add <emoji> <label> | emoji rm <emoji>")
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			return fmt.Errorf("usage: emoji add <emoji> <label>")
		}
		if !a.store.AddQuickEmoji(ctx, args[1], strings.Join(args[2:], " ")) {
			return fmt.Errorf("emoji %s already exists", args[1])
		}
	case "rm", "remove":
		if len(args) < 2 {
			return fmt.Errorf("usage: emoji rm <emoji>")
		}
		if !a.store.RemoveQuickEmoji(ctx, args[1]) {
			return fmt.Errorf("emoji %s not found", args[1])
		}
	default:
		return fmt.Errorf("unknown emoji action %q", args[0])
	}

	if st := a.store.LastPersistStatus(); st.Err != nil {
		printlnFn("⚠ 表情已更新，但未能保存到本地：", st.Err)
	}
	return a.redraw(ctx, router.ViewDiary)
}

// Chat selects the active conversation.
func (a *App) Chat(ctx context.Context, id string) error {
	a.store.SetActiveSession(id)
	return a.redraw(ctx, router.ViewChat)
}

// Say sends text to the active conversation.
func (a *App) Say(ctx context.Context, text string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	sess, ok := a.store.ActiveChatSession()
	if !ok {
		return fmt.Errorf("no active chat session, pick one with: chat <id>")
	}
	if err := a.sync.SendMessage(ctx, sess.ID, text); err != nil {
		return err
	}
	return a.redraw(ctx, router.ViewChat)
}

// Diary handles "diary add <emoji> <content...> [@image]". The mood label is
// taken from the quick-emoji list.
func (a *App) Diary(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if len(args) < 3 || args[0] != "add" {
		return fmt.Errorf("usage: diary add <emoji> <content> [@image]")
	}

	emoji := args[1]
	words := args[2:]
	var image *services.Image
	if last := words[len(words)-1]; strings.HasPrefix(last, "@") && len(words) > 1 {
		img, err := readImage(strings.TrimPrefix(last, "@"))
		if err != nil {
			return err
		}
		image = img
		words = words[:len(words)-1]
	}

	entry := models.DiaryEntry{
		MoodEmoji: emoji,
		MoodLabel: emoji,
		Content:   strings.Join(words, " "),
		Tags:      []string{},
	}
	if label, ok := a.quickEmojiLabel(emoji); ok {
		entry.MoodLabel = label
	}
	created, err := a.sync.AddDiaryEntry(ctx, entry, image)
	if err != nil {
		return err
	}
	printlnFn("日记已保存", created.Date)
	return a.redraw(ctx, router.ViewDiary, router.ViewDashboard)
}

func (a *App) quickEmojiLabel(emoji string) (string, bool) {
	for _, q := range a.store.Snapshot().Diary.QuickEmojis {
		if q.Emoji == emoji {
			return q.Label, true
		}
	}
	return "", false
}

func readImage(path string) (*services.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return &services.Image{ContentType: http.DetectContentType(data), Data: data}, nil
}

// Post publishes an anonymous treehole message. A leading emoji argument
// of the quick list is used as its mood.
func (a *App) Post(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: post [emoji] <content>")
	}

	mood := ""
	if _, ok := a.quickEmojiLabel(args[0]); ok && len(args) > 1 {
		mood, args = args[0], args[1:]
	}
	if err := a.sync.Post(ctx, strings.Join(args, " "), mood); err != nil {
		return err
	}
	return a.Treehole(ctx)
}

func (a *App) Warm(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return a.sync.Warm(ctx, id)
}

func (a *App) Treehole(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return views.RenderTreehole(a.out, a.store.Snapshot().Treehole.Posts)
}

// Done marks a CBT scenario finished.
func (a *App) Done(ctx context.Context, id string) error {
	if !a.store.MarkScenarioFinished(id) {
		return fmt.Errorf("unknown scenario %q", id)
	}
	return a.redraw(ctx, router.ViewCbtList, router.ViewCbtScenario)
}

// Export writes the diary as YAML (default) or JSON, to path or stdout.
func (a *App) Export(ctx context.Context, args []string) error {
	format := views.FormatYAML
	if len(args) > 0 {
		format = views.Format(strings.ToLower(args[0]))
	}
	if format == "yml" {
		format = views.FormatYAML
	}
	if format != views.FormatYAML && format != views.FormatJSON {
		return fmt.Errorf("%w: %s", views.ErrUnknownFormat, format)
	}
	entries := a.store.Snapshot().Diary.Entries

	if len(args) < 2 {
		return views.ExportDiary(a.out, entries, format)
	}

	f, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("create %s: %w", args[1], err)
	}
	if err := views.ExportDiary(f, entries, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printlnFn("已导出到", args[1])
	return nil
}

// Greet recomputes the time-of-day greeting and prints it.
func (a *App) Greet(ctx context.Context) error {
	a.store.UpdateGreeting()
	st := a.store.Snapshot()
	if st.IsAuthenticated {
		printlnFn(fmt.Sprintf("%s，%s", st.Greeting, st.User.Nickname))
	} else {
		printlnFn(st.Greeting)
	}
	return nil
}
