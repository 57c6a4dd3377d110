// Package rows converts raw Campflow registration records into the ordered,
// positionally-addressed view the reconciler diffs against the spreadsheet.
// Build is pure: the same records in the same order always produce the same
// RowSet, which is what makes fingerprint-based change detection sound.
package rows

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/zeltlager-spelle/campsync/pkg/constants"
	"github.com/zeltlager-spelle/campsync/pkg/errors"
)

// Status strings rendered into the display text.
const (
	StatusPaid   = "bestätigt"
	StatusUnpaid = "unbestätigt"

	// TeamSeparator splits the team name from the rest of the display text.
	TeamSeparator = " aus "
)

// Attendee is the view of a Campflow registration record the row builder
// needs. The source layer maps the raw API payload (custom column IDs and
// all) onto this struct.
type Attendee struct {
	CreationDate     string
	CancellationDate string
	TeamName         string
	Village          string
	Labels           []string
}

// Cancelled reports whether the registration carries a cancellation marker.
func (a Attendee) Cancelled() bool {
	return strings.TrimSpace(a.CancellationDate) != ""
}

// Row is one display row: a 1-based starting position, the rendered cell
// text, and the paid flag that drives the row color.
type Row struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
	Paid     bool   `json:"paid"`
}

// RowSet is the ordered sequence of rows for one poll cycle. Positions are
// always the contiguous range 1..len(rs).
type RowSet []Row

// Active returns the attendees without a cancellation marker, preserving
// input order.
func Active(attendees []Attendee) []Attendee {
	out := make([]Attendee, 0, len(attendees))
	for _, a := range attendees {
		if !a.Cancelled() {
			out = append(out, a)
		}
	}
	return out
}

// Build orders the attendees by creation time (earliest first, ties keep
// input order) and renders one row per attendee. An unparseable creation
// timestamp fails the whole build rather than silently dropping or
// reordering a single record; the sync loop retries the tick from scratch.
func Build(attendees []Attendee) (RowSet, error) {
	type ordered struct {
		attendee Attendee
		created  time.Time
	}

	items := make([]ordered, 0, len(attendees))
	for _, a := range attendees {
		created, err := ParseCreation(a.CreationDate)
		if err != nil {
			return nil, err
		}
		items = append(items, ordered{attendee: a, created: created})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].created.Before(items[j].created)
	})

	set := make(RowSet, 0, len(items))
	for i, it := range items {
		a := it.attendee
		team := strings.TrimSpace(a.TeamName)
		village := strings.TrimSpace(a.Village)
		paid := slices.Contains(a.Labels, constants.PaidLabel)

		status := StatusUnpaid
		if paid {
			status = StatusPaid
		}

		set = append(set, Row{
			Position: i + 1,
			Text:     fmt.Sprintf("%s%s%s – %s", team, TeamSeparator, village, status),
			Paid:     paid,
		})
	}
	return set, nil
}

// ParseCreation normalizes a Campflow creation timestamp to a UTC instant.
// A trailing "Z" means UTC; a timestamp with no explicit offset in its final
// six characters is assumed UTC; otherwise the embedded offset is honored.
func ParseCreation(s string) (time.Time, error) {
	raw := s
	switch {
	case strings.HasSuffix(s, "Z"):
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	case len(s) >= 6 && !strings.ContainsAny(s[len(s)-6:], "+-"):
		s += "+00:00"
	case len(s) < 6:
		return time.Time{}, errors.WrapRecord("creation_date", raw,
			errors.New("timestamp too short"))
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.WrapRecord("creation_date", raw, err)
	}
	return t.UTC(), nil
}

// TeamKey extracts the team name from a rendered display text: everything
// before the first " aus ", or the whole text if the separator is absent.
// Two teams rendering the same key collide; the reconciler's current-state
// map is last-write-wins on this key.
func TeamKey(text string) string {
	team, _, _ := strings.Cut(text, TeamSeparator)
	return team
}

// PaidFromText reports whether a rendered display text marks the team as
// paid. Both the typographic and the plain hyphen are accepted because older
// sheet rows were written by hand.
func PaidFromText(text string) bool {
	return strings.HasSuffix(text, "– "+StatusPaid) || strings.HasSuffix(text, "- "+StatusPaid)
}
