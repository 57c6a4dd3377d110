// Package reconcile computes the minimal set of writes that converges the
// destination store to a freshly built row set. It never rewrites a cell
// whose stored text already matches, and it blanks rows whose teams
// disappeared from the source since the last cycle.
package reconcile

import (
	"strconv"

	"github.com/zeltlager-spelle/campsync/pkg/layout"
	"github.com/zeltlager-spelle/campsync/pkg/rows"
	"github.com/zeltlager-spelle/campsync/pkg/store"
)

// Reconciler diffs row sets against store state. It is stateless; a zero
// value with a layout is ready to use.
type Reconciler struct {
	layout layout.Layout
}

// New creates a Reconciler for the given sheet layout.
func New(l layout.Layout) *Reconciler {
	return &Reconciler{layout: l}
}

// Plan compares the freshly built row set against the store's current
// entries and returns the instruction lists the store adapter should apply
// as one batch.
//
// Rules, in order:
//   - A team already present in current gets a cell update only if its
//     stored text differs from the newly rendered text.
//   - A team absent from current always gets a full (position, text) write.
//   - Every row in the set gets a color instruction reflecting its paid
//     flag, regardless of whether the text changed.
//   - Every current entry whose team is absent from the row set gets a
//     blanking update and a neutral color at its stored physical row.
//
// Current is keyed by team name parsed from the rendered text; when two
// records render the same team key the later row silently owns the key
// (last-write-wins), matching how the store reader builds the map.
func (r *Reconciler) Plan(set rows.RowSet, current map[string]store.Entry) *Result {
	result := &Result{
		Updates: make([]store.Update, 0, len(set)),
		Colors:  make([]store.Color, 0, len(set)),
	}

	seen := make(map[string]bool, len(set))

	for _, row := range set {
		physical := r.layout.Row(row.Position)
		team := rows.TeamKey(row.Text)
		seen[team] = true

		entry, exists := current[team]
		if !exists || entry.Text != row.Text {
			result.Updates = append(result.Updates, store.Update{
				Row:    physical,
				Values: [2]string{strconv.Itoa(row.Position), row.Text},
			})
			if exists {
				result.Changed++
			} else {
				result.Added++
			}
		}

		result.Colors = append(result.Colors, store.PaidColor(physical, row.Paid))
	}

	for team, entry := range current {
		if seen[team] {
			continue
		}
		result.Updates = append(result.Updates, store.Blank(entry.Row))
		result.Colors = append(result.Colors, store.ResetColor(entry.Row))
		result.Removed++
	}

	return result
}
