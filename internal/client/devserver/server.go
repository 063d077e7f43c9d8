// Package devserver serves the client over HTTP for local development:
// /api/* is reverse-proxied to the backend app with the prefix stripped,
// every other path is resolved by the router and rendered as a text page.
package devserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodisland/internal/client/config"
	"github.com/dmitrijs2005/moodisland/internal/client/router"
	"github.com/dmitrijs2005/moodisland/internal/client/store"
	"github.com/dmitrijs2005/moodisland/internal/client/views"
	"github.com/dmitrijs2005/moodisland/internal/common"
	"github.com/dmitrijs2005/moodisland/internal/logging"
)

type Server struct {
	address string
	store   *store.Store
	router  *router.Router
	proxy   *httputil.ReverseProxy
	logger  logging.Logger
	mux     *http.ServeMux
}

func New(cfg *config.Config, st *store.Store, l logging.Logger) (*Server, error) {
	target, err := url.Parse(cfg.BackendAppURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend app url %q: %w", cfg.BackendAppURL, err)
	}
	if !target.IsAbs() {
		return nil, fmt.Errorf("backend app url %q must be absolute", cfg.BackendAppURL)
	}

	s := &Server{
		address: fmt.Sprintf(":%d", cfg.FrontendPort),
		store:   st,
		router:  router.New(views.Factories()),
		logger:  l.With("module", "devserver"),
		mux:     http.NewServeMux(),
	}
	s.proxy = s.newProxy(target)

	s.mux.Handle(common.APIPrefix+"/", s.proxy)
	s.mux.Handle(common.APIPrefix, s.proxy)
	s.mux.HandleFunc("/", s.handlePage)
	return s, nil
}

func (s *Server) Address() string { return s.address }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) newProxy(target *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = config.StripAPIPrefix(pr.In.URL.Path)
			pr.Out.URL.RawPath = ""
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			s.logger.Warn(r.Context(), "proxy error", "path", r.URL.Path, "err", err)
			http.Error(w, "backend unavailable", http.StatusBadGateway)
		},
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	m, err := s.router.Resolve(r.URL.Path)
	if err != nil {
		s.logger.Error(r.Context(), "resolve failed", "path", r.URL.Path, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if m.RedirectedFrom != "" {
		http.Redirect(w, r, m.Path, http.StatusFound)
		return
	}

	v, err := s.router.View(m.View)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := views.RenderPage(&buf, m, v, s.store.Snapshot()); err != nil {
		s.logger.Error(r.Context(), "render failed", "view", m.View, "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if m.View == router.ViewNotFound {
		w.WriteHeader(http.StatusNotFound)
	}
	_, _ = w.Write(buf.Bytes())
}

// Run listens on the configured port until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping dev server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting dev server", "address", strings.TrimPrefix(l.Addr().String(), "[::]"))

	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
