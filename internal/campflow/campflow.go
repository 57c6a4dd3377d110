// Package campflow implements the registration data source: a thin client
// for the Campflow REST API that fetches the persons of a list, strips
// cancelled registrations, and maps the custom columns onto the attendee
// view the row builder consumes.
package campflow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/zeltlager-spelle/campsync/internal/transport"
	"github.com/zeltlager-spelle/campsync/pkg/constants"
	"github.com/zeltlager-spelle/campsync/pkg/errors"
	"github.com/zeltlager-spelle/campsync/pkg/rows"
)

// Config holds the settings the client needs.
type Config struct {
	// BaseURL is the API root; defaults to the production Campflow API.
	BaseURL string

	// EventID is the list ID (lst_…) whose persons are synced.
	EventID string

	// Token is the Campflow bearer token.
	Token string

	// Timeout overrides the default HTTP timeout when positive.
	Timeout time.Duration
}

// Client talks to the Campflow API.
type Client struct {
	baseURL string
	eventID string
	http    *transport.Client
	creator *transport.Client
}

// New creates a Campflow client. The token is required; everything else has
// defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.ErrAPIKeyRequired
	}
	if cfg.EventID == "" {
		return nil, &errors.ValidationError{Field: "event_id", Message: "event ID is required"}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/") + "/"

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	auth := &transport.BearerAuth{Token: cfg.Token}
	return &Client{
		baseURL: baseURL,
		eventID: cfg.EventID,
		http:    transport.NewWithTimeout(auth, timeout),
		creator: transport.NewWithTimeout(auth, constants.CreateTimeout),
	}, nil
}

// personsResponse is the wire shape of GET lists/{id}/persons.
type personsResponse struct {
	Data []map[string]any `json:"data"`
}

// FetchActive fetches the list's persons and returns the non-cancelled ones
// as attendees, together with their raw payloads for snapshotting. Raw
// payloads are filtered the same way, so snapshots never contain cancelled
// registrations.
func (c *Client) FetchActive(ctx context.Context) ([]rows.Attendee, []map[string]any, error) {
	endpoint := fmt.Sprintf("lists/%s/persons", url.PathEscape(c.eventID))

	resp, err := c.http.Get(ctx, c.baseURL+endpoint)
	if err != nil {
		return nil, nil, errors.WrapSource(endpoint, err)
	}

	var payload personsResponse
	if err := transport.DecodeResponse("campflow", resp, &payload); err != nil {
		return nil, nil, errors.WrapSource(endpoint, err)
	}

	attendees := make([]rows.Attendee, 0, len(payload.Data))
	raw := make([]map[string]any, 0, len(payload.Data))
	for _, person := range payload.Data {
		a := attendeeFrom(person)
		if a.Cancelled() {
			continue
		}
		attendees = append(attendees, a)
		raw = append(raw, person)
	}
	return attendees, raw, nil
}

// Get queries an arbitrary sub-resource of the list and returns the raw JSON
// body. An empty subpath addresses the list object itself.
func (c *Client) Get(ctx context.Context, subpath string) ([]byte, error) {
	endpoint := strings.TrimRight(fmt.Sprintf("lists/%s/%s", url.PathEscape(c.eventID), subpath), "/")

	resp, err := c.http.Get(ctx, c.baseURL+endpoint)
	if err != nil {
		return nil, errors.WrapSource(endpoint, err)
	}
	return transport.ReadBody("campflow", resp)
}

// CreatePerson posts a new person to the list and returns the raw response
// body. Used by the bulk test-data generator.
func (c *Client) CreatePerson(ctx context.Context, payload map[string]any) ([]byte, error) {
	endpoint := fmt.Sprintf("lists/%s/persons", url.PathEscape(c.eventID))

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WrapParse("json", "person payload", err)
	}

	resp, err := c.creator.Post(ctx, c.baseURL+endpoint, body)
	if err != nil {
		return nil, errors.WrapSource(endpoint, err)
	}
	return transport.ReadBody("campflow", resp)
}

// attendeeFrom maps a raw person payload onto the attendee view. Missing or
// null fields become zero values; the row builder decides what is fatal.
func attendeeFrom(person map[string]any) rows.Attendee {
	return rows.Attendee{
		CreationDate:     stringField(person, "creation_date"),
		CancellationDate: stringField(person, "cancellation_date"),
		TeamName:         stringField(person, constants.TeamColumn),
		Village:          stringField(person, constants.VillageColumn),
		Labels:           stringSlice(person, "label_names"),
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func stringSlice(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
