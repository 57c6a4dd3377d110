package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeltlager-spelle/campsync/pkg/layout"
)

func TestRowAroundReservedBoundary(t *testing.T) {
	l := layout.Layout{Reserved: 72}

	assert.Equal(t, 2, l.Row(1))
	assert.Equal(t, 73, l.Row(72))
	assert.Equal(t, 77, l.Row(73))
	assert.Equal(t, 78, l.Row(74))
}

func TestRowInjectiveAndAvoidsSeparator(t *testing.T) {
	l := layout.Layout{Reserved: 72}

	seen := make(map[int]int)
	for pos := 1; pos <= 500; pos++ {
		row := l.Row(pos)

		prev, dup := seen[row]
		assert.False(t, dup, "positions %d and %d both map to row %d", prev, pos, row)
		seen[row] = pos

		assert.False(t, l.IsSeparator(row),
			"position %d maps into the separator block (row %d)", pos, row)
	}
}

func TestSeparatorBlock(t *testing.T) {
	l := layout.Layout{Reserved: 72}

	assert.Equal(t, 74, l.SeparatorStart())
	assert.Equal(t, 76, l.SeparatorEnd())
	assert.True(t, l.IsSeparator(74))
	assert.True(t, l.IsSeparator(75))
	assert.True(t, l.IsSeparator(76))
	assert.False(t, l.IsSeparator(73))
	assert.False(t, l.IsSeparator(77))
}

func TestDefaultLayout(t *testing.T) {
	assert.Equal(t, 72, layout.Default().Reserved)
}
