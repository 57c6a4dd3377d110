package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeltlager-spelle/campsync/pkg/store"
	"github.com/zeltlager-spelle/campsync/pkg/store/memory"
)

func TestEnsureIdempotent(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	require.NoError(t, s.Ensure(ctx))
	require.NoError(t, s.Ensure(ctx))

	assert.Equal(t, [2]string{"Startplatz", "Mannschaft"}, s.Cells(1))
	assert.Equal(t, [2]string{"", "Warteliste"}, s.Cells(76))
}

func TestCurrentSkipsSeparatorAndHeader(t *testing.T) {
	s := memory.New(
		memory.WithRow(2, "1", "Adler aus Beesten – bestätigt"),
		memory.WithRow(77, "73", "Falken aus Spelle – unbestätigt"),
	)
	ctx := context.Background()
	require.NoError(t, s.Ensure(ctx))

	current, err := s.Current(ctx)
	require.NoError(t, err)
	require.Len(t, current, 2)

	adler := current["Adler"]
	assert.Equal(t, 2, adler.Row)
	assert.Equal(t, 1, adler.Position)
	assert.True(t, adler.Paid)

	falken := current["Falken"]
	assert.Equal(t, 77, falken.Row)
	assert.Equal(t, 73, falken.Position)
	assert.False(t, falken.Paid)
}

func TestCurrentUnparseablePositionIsZero(t *testing.T) {
	s := memory.New(memory.WithRow(3, "drei", "Füchse aus Schapen – unbestätigt"))

	current, err := s.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, current["Füchse"].Position)
}

func TestApplyWritesAndColors(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	err := s.Apply(ctx,
		[]store.Update{
			{Row: 2, Values: [2]string{"1", "Adler aus Beesten – bestätigt"}},
			store.Blank(5),
		},
		[]store.Color{
			store.PaidColor(2, true),
			store.ResetColor(5),
		})
	require.NoError(t, err)

	assert.Equal(t, [2]string{"1", "Adler aus Beesten – bestätigt"}, s.Cells(2))
	assert.Equal(t, [2]string{"", ""}, s.Cells(5))
	require.NotNil(t, s.ColorOf(2))
	assert.True(t, *s.ColorOf(2))
	assert.Nil(t, s.ColorOf(5))
	assert.Equal(t, 1, s.Applies())
}
