// Package router maps client paths to views.
//
// The table is static: a redirect from "/" to "/login", the app pages, one
// parameterised route (/cbt/scenario/:id) and a catch-all that lands on the
// not-found view. Matching ignores case and a trailing slash. There are no
// guards; views decide for themselves what an anonymous user sees.
package router

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/dmitrijs2005/moodisland/internal/client/store"
)

const maxRedirects = 8

var (
	ErrRedirectLoop = errors.New("redirect loop")
	ErrNoView       = errors.New("no view registered")
)

type ViewName string

const (
	ViewLogin       ViewName = "login"
	ViewRegister    ViewName = "register"
	ViewDashboard   ViewName = "dashboard"
	ViewDiary       ViewName = "diary"
	ViewChat        ViewName = "chat"
	ViewCbtList     ViewName = "cbt-list"
	ViewCbtScenario ViewName = "cbt-scenario"
	ViewProfile     ViewName = "profile"
	ViewNotFound    ViewName = "not-found"
)

// LayoutAuth marks the bare sign-in pages rendered without the app shell.
const LayoutAuth = "auth"

// View renders one page from a store snapshot.
type View interface {
	Render(w io.Writer, st store.State, props map[string]string) error
}

// ViewFactory builds a view on first use.
type ViewFactory func() View

type Route struct {
	Path     string
	Redirect string
	View     ViewName
	Layout   string
	// Props passes path parameters to the view.
	Props bool
}

// Routes is the client's route table, in match order.
var Routes = []Route{
	{Path: "/", Redirect: "/login"},
	{Path: "/login", View: ViewLogin, Layout: LayoutAuth},
	{Path: "/register", View: ViewRegister, Layout: LayoutAuth},
	{Path: "/dashboard", View: ViewDashboard},
	{Path: "/diary", View: ViewDiary},
	{Path: "/chat", View: ViewChat},
	{Path: "/cbt", View: ViewCbtList},
	{Path: "/cbt/scenario/:id", View: ViewCbtScenario, Props: true},
	{Path: "/profile", View: ViewProfile},
}

// Match is a resolved path.
type Match struct {
	// Path is the path that finally matched, after redirects.
	Path string
	// RedirectedFrom is the originally requested path when a redirect fired.
	RedirectedFrom string
	Route          Route
	View           ViewName
	Layout         string
	Props          map[string]string
}

type Router struct {
	routes    []Route
	factories map[ViewName]ViewFactory

	mu    sync.Mutex
	views map[ViewName]View
}

// New builds a router over the standard table.
func New(factories map[ViewName]ViewFactory) *Router {
	return NewWithRoutes(Routes, factories)
}

func NewWithRoutes(routes []Route, factories map[ViewName]ViewFactory) *Router {
	return &Router{
		routes:    routes,
		factories: factories,
		views:     make(map[ViewName]View),
	}
}

func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Resolve matches path against the table, following redirects. Paths that
// match nothing resolve to ViewNotFound.
func (r *Router) Resolve(path string) (Match, error) {
	requested := cleanPath(path)
	current := requested

	for i := 0; i <= maxRedirects; i++ {
		route, props, ok := r.match(current)
		if !ok {
			return Match{Path: current, View: ViewNotFound, Route: Route{Path: current, View: ViewNotFound}}, nil
		}
		if route.Redirect != "" {
			current = cleanPath(route.Redirect)
			continue
		}

		m := Match{
			Path:   current,
			Route:  route,
			View:   route.View,
			Layout: route.Layout,
		}
		if route.Props {
			m.Props = props
		}
		if current != requested {
			m.RedirectedFrom = requested
		}
		return m, nil
	}
	return Match{}, fmt.Errorf("%w: %s", ErrRedirectLoop, requested)
}

// View returns the view for name, constructing it on first request.
func (r *Router) View(name ViewName) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.views[name]; ok {
		return v, nil
	}
	f, ok := r.factories[name]
	if !ok || f == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoView, name)
	}
	v := f()
	r.views[name] = v
	return v, nil
}

func (r *Router) match(path string) (Route, map[string]string, bool) {
	segs := splitPath(path)
	for _, route := range r.routes {
		if props, ok := matchSegments(splitPath(route.Path), segs); ok {
			return route, props, true
		}
	}
	return Route{}, nil, false
}

func matchSegments(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var props map[string]string
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if segs[i] == "" {
				return nil, false
			}
			v, err := url.PathUnescape(segs[i])
			if err != nil {
				return nil, false
			}
			if props == nil {
				props = make(map[string]string)
			}
			props[name] = v
			continue
		}
		if !strings.EqualFold(p, segs[i]) {
			return nil, false
		}
	}
	return props, true
}

// cleanPath drops query, fragment and a trailing slash.
func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
