// Package config loads runtime configuration for the moodisland client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, selected with -c/--config.
//  3. Environment: VITE_BACKEND_API_BASE_URL (or VITE_BASE_URL),
//     VITE_BACKEND_APP_URL, VITE_FRONTEND_PORT.
//  4. Command-line flags, passed in as Overrides.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds. Every key is optional:
//
//	{
//	  "api_base_url": "/api",
//	  "backend_app_url": "http://127.0.0.1:8080",
//	  "frontend_port": 5173,
//	  "db_path": ".moodisland/preferences.db",
//	  "auth_header": "Authorization",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s"
//	}
package config
