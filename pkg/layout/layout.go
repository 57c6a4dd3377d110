// Package layout maps logical starting positions to physical spreadsheet
// rows. The sheet has one header row, a reserved block of guaranteed places,
// and a fixed three-row separator (two blanks plus the waitlist label)
// before the waitlist continues.
package layout

import "github.com/zeltlager-spelle/campsync/pkg/constants"

// Rows the separator block occupies between reserved block and waitlist.
const (
	headerRows    = 1
	separatorRows = 3
)

// Layout describes the destination sheet's fixed geometry.
type Layout struct {
	// Reserved is the number of guaranteed starting places before the
	// waitlist section begins.
	Reserved int
}

// Default returns the production layout.
func Default() Layout {
	return Layout{Reserved: constants.DefaultReserved}
}

// Row maps a 1-based logical position to its physical sheet row. Positions
// within the reserved block sit directly below the header; waitlist
// positions additionally skip the separator block. The mapping is injective
// and never lands inside the separator rows.
func (l Layout) Row(pos int) int {
	if pos <= l.Reserved {
		return pos + headerRows
	}
	return pos + headerRows + separatorRows
}

// SeparatorStart returns the first physical row of the separator block.
func (l Layout) SeparatorStart() int {
	return l.Reserved + headerRows + 1
}

// SeparatorEnd returns the last physical row of the separator block, the
// one carrying the waitlist label.
func (l Layout) SeparatorEnd() int {
	return l.Reserved + headerRows + separatorRows
}

// IsSeparator reports whether a physical row belongs to the separator block.
func (l Layout) IsSeparator(row int) bool {
	return row >= l.SeparatorStart() && row <= l.SeparatorEnd()
}
