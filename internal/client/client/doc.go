// Package client talks to the moodisland backend over HTTP/JSON.
//
// # Overview
//
//  1. Client is the transport-agnostic API contract used by the services
//     layer: auth, dashboard, diary, chat, CBT and treehole calls.
//  2. HTTPClient implements it. Every request passes through an auth
//     RoundTripper that adds a request id and, when the TokenSource has one,
//     the bearer token (header name configurable, Authorization by default).
//
// # Error Handling
//
// A 401 response notifies the user, ends the session through the
// SessionTerminator and returns an error wrapping ErrUnauthorized. Transport
// failures wrap ErrUnavailable. Other non-2xx responses return *StatusError.
// Match with errors.Is / errors.As.
//
// All operations accept context.Context and honor cancellation.
package client
