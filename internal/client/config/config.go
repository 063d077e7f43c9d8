package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodisland/internal/common"
)

// Config holds runtime settings for the moodisland client.
//
// Fields:
//   - APIBaseURL: base of every API request. Absolute, or a path such as
//     "/api" that is served through the backend app (see APIEndpoint).
//   - BackendAppURL: origin of the backend application.
//   - FrontendPort: port the dev server listens on.
//   - DBPath: SQLite file holding preferences.
//   - Ephemeral: keep preferences in memory only.
//   - AuthHeader: request header that carries the bearer token.
//   - RequestTimeout: per-request HTTP timeout.
//   - OnlineCheckInterval: how often the client probes backend reachability.
type Config struct {
	APIBaseURL          string
	BackendAppURL       string
	FrontendPort        int
	DBPath              string
	Ephemeral           bool
	AuthHeader          string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = common.APIPrefix
	c.BackendAppURL = "http://127.0.0.1:8080"
	c.FrontendPort = 5173
	c.DBPath = filepath.Join(".moodisland", "preferences.db")
	c.Ephemeral = false
	c.AuthHeader = common.AuthHeaderName
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays the JSON
// file at jsonPath (if any), the environment, and finally explicit
// overrides. Later sources take precedence over earlier ones.
func LoadConfig(jsonPath string, getenv func(string) string, o Overrides) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, err
	}
	applyEnv(cfg, getenv)
	o.apply(cfg)
	return cfg, nil
}

// APIEndpoint returns the absolute base URL for API calls. A relative base
// is routed to BackendAppURL with the "/api" prefix stripped, the way the
// browser dev proxy forwarded it.
func (c *Config) APIEndpoint() (*url.URL, error) {
	base, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", c.APIBaseURL, err)
	}
	if base.IsAbs() {
		return base, nil
	}

	app, err := url.Parse(c.BackendAppURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend app url %q: %w", c.BackendAppURL, err)
	}
	if !app.IsAbs() {
		return nil, fmt.Errorf("backend app url %q must be absolute", c.BackendAppURL)
	}

	rest := StripAPIPrefix(base.Path)
	out := *app
	out.Path = strings.TrimSuffix(app.Path, "/") + rest
	out.RawQuery = base.RawQuery
	return &out, nil
}

// StripAPIPrefix removes a leading "/api" segment from p.
func StripAPIPrefix(p string) string {
	if p == common.APIPrefix {
		return ""
	}
	if strings.HasPrefix(p, common.APIPrefix+"/") {
		return strings.TrimPrefix(p, common.APIPrefix)
	}
	return p
}
