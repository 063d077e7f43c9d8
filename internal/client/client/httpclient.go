package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodisland/internal/common"
	"github.com/dmitrijs2005/moodisland/internal/logging"
)

const maxErrorBody = 4 << 10

// HTTPClient talks JSON to the backend.
type HTTPClient struct {
	base     *url.URL
	hc       *http.Client
	upload   *http.Client
	session  SessionTerminator
	notifier Notifier
	logger   logging.Logger
}

var _ Client = (*HTTPClient)(nil)

type Option func(*options)

type options struct {
	header    string
	timeout   time.Duration
	transport http.RoundTripper
	tokens    TokenSource
	session   SessionTerminator
	notifier  Notifier
	logger    logging.Logger
}

// WithAuthHeader changes the header that carries the token.
func WithAuthHeader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.header = name
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithSession wires the token source and the logout hook, usually both the
// application store.
func WithSession(tokens TokenSource, session SessionTerminator) Option {
	return func(o *options) {
		o.tokens = tokens
		o.session = session
	}
}

func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewHTTPClient builds a client rooted at base, which must be absolute.
func NewHTTPClient(base *url.URL, opts ...Option) (*HTTPClient, error) {
	if base == nil || !base.IsAbs() {
		return nil, fmt.Errorf("api base url must be absolute, got %v", base)
	}

	o := options{
		header:  common.AuthHeaderName,
		timeout: 10 * time.Second,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	b := *base
	b.Path = strings.TrimSuffix(b.Path, "/")

	return &HTTPClient{
		base: &b,
		hc: &http.Client{
			Timeout:   o.timeout,
			Transport: &authTransport{base: o.transport, tokens: o.tokens, header: o.header},
		},
		upload:   &http.Client{Timeout: o.timeout, Transport: o.transport},
		session:  o.session,
		notifier: o.notifier,
		logger:   o.logger.With("component", "http-client"),
	}, nil
}

// BaseURL returns the resolved API root.
func (c *HTTPClient) BaseURL() string {
	return c.base.String()
}

// endpoint appends path to the API root. path is already escaped, so ids
// placed into it with url.PathEscape go on the wire exactly once.
func (c *HTTPClient) endpoint(path string) string {
	u := *c.base
	u.RawPath = c.base.EscapedPath() + path
	p, err := url.PathUnescape(u.RawPath)
	if err != nil {
		u.Path, u.RawPath = c.base.Path+path, ""
		return u.String()
	}
	u.Path = p
	return u.String()
}

// do sends in as JSON (when non-nil) and decodes the response into out
// (when non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug(ctx, "request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession(ctx)
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) expireSession(ctx context.Context) {
	c.logger.Warn(ctx, "unauthorized response, ending session")
	if c.notifier != nil {
		c.notifier.Notify(ctx, SessionExpiredMessage)
	}
	if c.session != nil {
		c.session.Logout()
	}
}

// errorMessage pulls a human message out of an error body: {"message":...},
// {"error":...} or plain text.
func errorMessage(raw []byte) string {
	var v struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &v) == nil {
		if v.Message != "" {
			return v.Message
		}
		if v.Error != "" {
			return v.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
