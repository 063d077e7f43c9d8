// Package views renders the routed pages as styled terminal text.
//
// Each page reads a store snapshot and never mutates it. Pages other than
// login, register and not-found show a sign-in hint to anonymous users.
package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/moodisland/internal/client/router"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
)

// ViewFunc adapts a render function to router.View.
type ViewFunc func(w io.Writer, st store.State, props map[string]string) error

func (f ViewFunc) Render(w io.Writer, st store.State, props map[string]string) error {
	return f(w, st, props)
}

var pages = map[router.ViewName]ViewFunc{
	router.ViewLogin:       renderLogin,
	router.ViewRegister:    renderRegister,
	router.ViewDashboard:   authed(renderDashboard),
	router.ViewDiary:       authed(renderDiary),
	router.ViewChat:        authed(renderChat),
	router.ViewCbtList:     authed(renderCbtList),
	router.ViewCbtScenario: authed(renderCbtScenario),
	router.ViewProfile:     authed(renderProfile),
	router.ViewNotFound:    renderNotFound,
}

// Factories returns a factory per routed view, for router.New.
func Factories() map[router.ViewName]router.ViewFactory {
	out := make(map[router.ViewName]router.ViewFactory, len(pages))
	for name, page := range pages {
		out[name] = func() router.View { return page }
	}
	return out
}

// Render writes the named view.
func Render(w io.Writer, name router.ViewName, st store.State, props map[string]string) error {
	page, ok := pages[name]
	if !ok {
		return fmt.Errorf("%w: %s", router.ErrNoView, name)
	}
	return page(w, st, props)
}

// RenderPage writes a resolved route: the app shell (greeting and
// navigation) around the view, or the view alone for the auth layout.
func RenderPage(w io.Writer, m router.Match, v router.View, st store.State) error {
	if m.Layout != router.LayoutAuth {
		if err := renderShell(w, m, st); err != nil {
			return err
		}
	}
	return v.Render(w, st, m.Props)
}

var navItems = []struct {
	path  string
	label string
}{
	{"/dashboard", "首页"},
	{"/diary", "日记"},
	{"/chat", "倾诉"},
	{"/cbt", "练习"},
	{"/profile", "我的"},
}

func renderShell(w io.Writer, m router.Match, st store.State) error {
	var b strings.Builder
	b.WriteString(headerStyle.Render("心情小岛"))
	if st.IsAuthenticated {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %s，%s", st.Greeting, st.User.Nickname)))
	}
	b.WriteString("\n")

	items := make([]string, 0, len(navItems))
	for _, it := range navItems {
		label := it.label + " " + it.path
		if strings.EqualFold(it.path, m.Path) {
			items = append(items, accentStyle.Render("["+label+"]"))
		} else {
			items = append(items, navStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(items, "  "))
	b.WriteString("\n\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func authed(page ViewFunc) ViewFunc {
	return func(w io.Writer, st store.State, props map[string]string) error {
		if !st.IsAuthenticated {
			_, err := fmt.Fprintln(w, warnStyle.Render("请先登录：go /login"))
			return err
		}
		return page(w, st, props)
	}
}

func renderLogin(w io.Writer, st store.State, _ map[string]string) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("登录 · 心情小岛") + "\n")
	if st.IsAuthenticated {
		fmt.Fprintf(&b, "已登录为 %s。输入 go /dashboard 回到首页。\n", st.User.Nickname)
	} else {
		b.WriteString("login <学号>        使用学号和密码登录\n")
		b.WriteString(mutedStyle.Render("还没有账号？go /register") + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderRegister(w io.Writer, _ store.State, _ map[string]string) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("注册 · 心情小岛") + "\n")
	b.WriteString("register <学号> <邮箱> <昵称>   创建账号\n")
	b.WriteString(mutedStyle.Render("已有账号？go /login") + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func renderNotFound(w io.Writer, _ store.State, _ map[string]string) error {
	_, err := fmt.Fprintln(w, warnStyle.Render("404 · 这里好像没有小岛。go /dashboard 回到首页。"))
	return err
}
