package client

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/moodisland/internal/common"
)

// authTransport stamps every request with a request id and, when a token is
// available, the bearer credential.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenSource
	header string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if req.Header.Get(common.RequestIDHeaderName) == "" {
		req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	}
	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			req.Header.Set(t.header, common.BearerPrefix+token)
		}
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
