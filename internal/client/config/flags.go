package config

// Overrides carries values set explicitly on the command line. Zero values
// leave the loaded configuration untouched.
type Overrides struct {
	APIBaseURL string
	DBPath     string
	Ephemeral  bool
	Port       int
}

func (o Overrides) apply(cfg *Config) {
	if o.APIBaseURL != "" {
		cfg.APIBaseURL = o.APIBaseURL
	}
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.Ephemeral {
		cfg.Ephemeral = true
	}
	if o.Port > 0 {
		cfg.FrontendPort = o.Port
	}
}
