package reconcile

import (
	"fmt"

	"github.com/zeltlager-spelle/campsync/pkg/store"
)

// Result holds the instruction lists one reconciliation produced, plus
// summary counts for logging.
type Result struct {
	Updates []store.Update
	Colors  []store.Color

	// Added counts teams new to the store, Changed teams whose text moved,
	// Removed teams blanked because they disappeared from the source.
	Added   int
	Changed int
	Removed int
}

// HasChanges reports whether the plan contains any cell writes. Color
// instructions alone do not count: they are emitted every cycle.
func (r *Result) HasChanges() bool {
	return len(r.Updates) > 0
}

// Summary returns a human-readable one-liner for logging.
func (r *Result) Summary() string {
	if !r.HasChanges() {
		return "no cell changes"
	}
	return fmt.Sprintf("%d added, %d changed, %d removed", r.Added, r.Changed, r.Removed)
}
