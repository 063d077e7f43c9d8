package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/moodisland/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Only fields present in the
// file are copied into the runtime Config.
type JsonConfig struct {
	APIBaseURL          *string         `json:"api_base_url"`
	BackendAppURL       *string         `json:"backend_app_url"`
	FrontendPort        *int            `json:"frontend_port"`
	DBPath              *string         `json:"db_path"`
	AuthHeader          *string         `json:"auth_header"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// ErrNonPositiveInterval is returned for an online_check_interval that is
// zero or negative.
var ErrNonPositiveInterval = errors.New("interval must be positive")

// parseJson overlays cfg with values loaded from the JSON file at path.
// An empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.BackendAppURL, jc.BackendAppURL)
	setIf(&cfg.FrontendPort, jc.FrontendPort)
	setIf(&cfg.DBPath, jc.DBPath)
	setIf(&cfg.AuthHeader, jc.AuthHeader)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		if jc.OnlineCheckInterval.Duration <= 0 {
			return fmt.Errorf("parse config %s: online_check_interval %s: %w",
				path, jc.OnlineCheckInterval.Duration, ErrNonPositiveInterval)
		}
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
