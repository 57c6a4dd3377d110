// Package transport provides shared HTTP client functionality for the
// Campflow and Google Sheets APIs: authentication, timeouts, and response
// decoding.
package transport

import (
	"net/http"
	"strings"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {
	// No authentication applied
}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(a.Token))
}

// HeaderAuth implements custom header authentication.
type HeaderAuth struct {
	Header string
	Value  string
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request) {
	req.Header.Set(a.Header, a.Value)
}

// QueryAuth implements API key as query parameter authentication.
type QueryAuth struct {
	Param string
	Key   string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request) {
	if req.URL == nil {
		return
	}

	query := req.URL.Query()
	query.Set(a.Param, a.Key)
	req.URL.RawQuery = query.Encode()
}
