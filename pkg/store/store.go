// Package store defines the contract the reconciler needs from the
// destination row store, plus the instruction types it emits. Concrete
// implementations live in internal/sheets (Google Sheets) and store/memory
// (tests and dry runs).
package store

import "context"

// Entry is the destination's current view of one team, keyed externally by
// the team name extracted from Text.
type Entry struct {
	// Row is the physical sheet row the entry occupies.
	Row int

	// Position is the last-known starting position written to the sheet.
	Position int

	// Paid is derived from the stored text's status suffix.
	Paid bool

	// Text is the raw stored display text.
	Text string
}

// Update is one pending write: both cells of a physical row. Two empty
// strings blank the row.
type Update struct {
	Row    int
	Values [2]string
}

// Blank returns an update that clears both cells of a row.
func Blank(row int) Update {
	return Update{Row: row, Values: [2]string{"", ""}}
}

// Color is one pending background-color write. Paid nil resets the row to
// the neutral color; true and false select the affirmative and negative
// colors.
type Color struct {
	Row  int
	Paid *bool
}

// PaidColor returns a color instruction for a paid/unpaid row.
func PaidColor(row int, paid bool) Color {
	return Color{Row: row, Paid: &paid}
}

// ResetColor returns a color instruction restoring the neutral color.
func ResetColor(row int) Color {
	return Color{Row: row}
}

// Store is the destination row store the sync loop converges toward.
// Implementations own batching and any partial-failure semantics; the
// reconciler only produces instruction lists.
type Store interface {
	// Ensure makes sure the destination's header row, separator rows, and
	// waitlist label exist. It is idempotent and called once before the
	// first sync cycle.
	Ensure(ctx context.Context) error

	// Current returns the destination's current entries keyed by team name.
	Current(ctx context.Context) (map[string]Entry, error)

	// Apply writes all updates and color instructions as a single batch.
	Apply(ctx context.Context, updates []Update, colors []Color) error
}
