package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure. Any
// non-2xx status becomes an APIError carrying the response body.
func DecodeResponse(service string, resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", service+" response", err)
	}

	return nil
}

// ReadBody drains and closes a response body, returning it raw. Used by the
// fetch command, which pretty-prints whatever the API returned.
func ReadBody(service string, resp *http.Response) ([]byte, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return body, nil
}
