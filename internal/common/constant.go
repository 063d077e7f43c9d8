// Package common contains wire-level constants shared by the client components.
package common

const (
	// AuthHeaderName carries the bearer credential on outbound API requests.
	AuthHeaderName = "Authorization"

	// LegacyAuthHeaderName is the header one deployed backend revision reads
	// instead of Authorization.
	LegacyAuthHeaderName = "Authentication"

	// BearerPrefix precedes the token value in the auth header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName tags every outbound request for server-side tracing.
	RequestIDHeaderName = "X-Request-ID"

	// APIPrefix is the path prefix the dev proxy strips before forwarding.
	APIPrefix = "/api"
)
