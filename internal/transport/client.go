package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/zeltlager-spelle/campsync/pkg/constants"
	"github.com/zeltlager-spelle/campsync/pkg/logging"
)

// Client provides HTTP client functionality with authentication.
type Client struct {
	http *http.Client
	auth Authenticator
}

// New creates a new transport client with the specified authenticator.
func New(auth Authenticator) *Client {
	return NewWithTimeout(auth, constants.DefaultHTTPTimeout)
}

// NewWithTimeout creates a transport client with a custom request timeout.
func NewWithTimeout(auth Authenticator, timeout time.Duration) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
		auth: auth,
	}
}

// Do performs an HTTP request with authentication and a request ID applied.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	c.auth.Apply(req)

	requestID := logging.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-Id", requestID)

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.FromContext(ctx).Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Msg("HTTP request")

	return c.http.Do(req.WithContext(ctx))
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create GET %s: %w", url, err)
	}
	return c.Do(ctx, req)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create PUT %s: %w", url, err)
	}
	return c.Do(ctx, req)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create POST %s: %w", url, err)
	}
	return c.Do(ctx, req)
}
