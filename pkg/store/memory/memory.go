// Package memory provides an in-memory Store implementation used by tests
// and by dry runs of the sync loop. It mimics the destination sheet closely
// enough to exercise the reconciler: rows hold two cells, separator rows are
// never reported as entries, and colors are tracked per row.
package memory

import (
	"context"
	"strconv"
	"sync"

	"github.com/zeltlager-spelle/campsync/pkg/layout"
	"github.com/zeltlager-spelle/campsync/pkg/rows"
	"github.com/zeltlager-spelle/campsync/pkg/store"
)

// Option is a function that configures a memory Store.
type Option func(*Store)

// WithLayout sets the sheet geometry the store mimics.
func WithLayout(l layout.Layout) Option {
	return func(s *Store) {
		s.layout = l
	}
}

// WithRow seeds one pre-existing row, as written by an earlier sync or by
// hand.
func WithRow(row int, position, text string) Option {
	return func(s *Store) {
		s.cells[row] = [2]string{position, text}
	}
}

// Store is an in-memory destination row store.
type Store struct {
	mu      sync.Mutex
	layout  layout.Layout
	cells   map[int][2]string
	colors  map[int]*bool
	ensured bool
	applies int
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		layout: layout.Default(),
		cells:  make(map[int][2]string),
		colors: make(map[int]*bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure implements store.Store. It records the header and separator rows
// the way the sheet setup would.
func (s *Store) Ensure(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured {
		return nil
	}
	s.cells[1] = [2]string{"Startplatz", "Mannschaft"}
	s.cells[s.layout.SeparatorEnd()] = [2]string{"", "Warteliste"}
	s.ensured = true
	return nil
}

// Current implements store.Store, deriving the team-keyed entry map from
// the stored cells the same way the sheet reader does. Later rows win on
// team-key collisions.
func (s *Store) Current(_ context.Context) (map[string]store.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]store.Entry)
	for row := 2; row <= s.maxRow(); row++ {
		if s.layout.IsSeparator(row) {
			continue
		}
		cells, ok := s.cells[row]
		if !ok {
			continue
		}
		text := cells[1]
		if text == "" || text == "Warteliste" {
			continue
		}
		pos, err := strconv.Atoi(cells[0])
		if err != nil {
			pos = 0
		}
		out[rows.TeamKey(text)] = store.Entry{
			Row:      row,
			Position: pos,
			Paid:     rows.PaidFromText(text),
			Text:     text,
		}
	}
	return out, nil
}

// Apply implements store.Store.
func (s *Store) Apply(_ context.Context, updates []store.Update, colors []store.Color) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		s.cells[u.Row] = u.Values
	}
	for _, c := range colors {
		s.colors[c.Row] = c.Paid
	}
	s.applies++
	return nil
}

// Cells returns the current cell values of a physical row.
func (s *Store) Cells(row int) [2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells[row]
}

// ColorOf returns the last color instruction applied to a row: nil pointer
// semantics match store.Color (nil means neutral or never colored).
func (s *Store) ColorOf(row int) *bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colors[row]
}

// Applies returns how many Apply batches the store has received.
func (s *Store) Applies() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applies
}

func (s *Store) maxRow() int {
	max := s.layout.SeparatorEnd()
	for row := range s.cells {
		if row > max {
			max = row
		}
	}
	return max
}
