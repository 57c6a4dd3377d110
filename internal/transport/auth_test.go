package transport

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req)

	assert.Empty(t, req.Header)
}

func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{Token: "  tok_secret \n"}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req)

	assert.Equal(t, "Bearer tok_secret", req.Header.Get("Authorization"))
}

func TestHeaderAuth(t *testing.T) {
	auth := &HeaderAuth{Header: "X-Api-Key", Value: "k"}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req)

	assert.Equal(t, "k", req.Header.Get("X-Api-Key"))
}

func TestQueryAuth(t *testing.T) {
	auth := &QueryAuth{Param: "key", Key: "abc"}
	u, err := url.Parse("https://sheets.example/v4/values?range=A2:B")
	require.NoError(t, err)
	req := &http.Request{URL: u, Header: make(http.Header)}

	auth.Apply(req)

	assert.Equal(t, "abc", req.URL.Query().Get("key"))
	assert.Equal(t, "A2:B", req.URL.Query().Get("range"))
}
