package config

import "strconv"

// Environment variables understood by the client. The names match the ones
// the web build used so one .env file serves both.
const (
	EnvAPIBaseURL    = "VITE_BACKEND_API_BASE_URL"
	EnvBaseURL       = "VITE_BASE_URL"
	EnvBackendAppURL = "VITE_BACKEND_APP_URL"
	EnvFrontendPort  = "VITE_FRONTEND_PORT"
)

// applyEnv overlays cfg with environment values. VITE_BACKEND_API_BASE_URL
// wins over VITE_BASE_URL. A non-numeric port is ignored.
func applyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	if v := getenv(EnvAPIBaseURL); v != "" {
		cfg.APIBaseURL = v
	} else if v := getenv(EnvBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := getenv(EnvBackendAppURL); v != "" {
		cfg.BackendAppURL = v
	}
	if v := getenv(EnvFrontendPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.FrontendPort = port
		}
	}
}
