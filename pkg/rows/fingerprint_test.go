package rows_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeltlager-spelle/campsync/pkg/rows"
)

func sampleSet() rows.RowSet {
	return rows.RowSet{
		{Position: 1, Text: "Adler aus Beesten – bestätigt", Paid: true},
		{Position: 2, Text: "Falken aus Spelle – unbestätigt", Paid: false},
		{Position: 3, Text: "Füchse aus Schapen – unbestätigt", Paid: false},
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := sampleSet()
	b := sampleSet()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintEmptyAndNilAgree(t *testing.T) {
	var nilSet rows.RowSet
	assert.Equal(t, rows.RowSet{}.Fingerprint(), nilSet.Fingerprint())
}

func TestFingerprintOrderSensitive(t *testing.T) {
	a := sampleSet()
	b := sampleSet()
	b[0], b[1] = b[1], b[0]
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

// TestFingerprintRandomMutations flips one field of one row at random and
// checks the digest moves every time.
func TestFingerprintRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := sampleSet()
	baseFP := base.Fingerprint()

	for i := 0; i < 200; i++ {
		mutated := sampleSet()
		idx := rng.Intn(len(mutated))
		switch rng.Intn(3) {
		case 0:
			mutated[idx].Position += 1 + rng.Intn(10)
		case 1:
			mutated[idx].Text += "x"
		case 2:
			mutated[idx].Paid = !mutated[idx].Paid
		}
		require.NotEqual(t, baseFP, mutated.Fingerprint(),
			"mutation %d of row %d did not change the fingerprint", i, idx)
	}
}

func TestFingerprintMatchesBuildOutput(t *testing.T) {
	set, err := rows.Build([]rows.Attendee{
		{TeamName: "Adler", Village: "Beesten", CreationDate: "2024-01-01T09:00:00Z", Labels: []string{"Bezahlt"}},
	})
	require.NoError(t, err)

	again, err := rows.Build([]rows.Attendee{
		{TeamName: "Adler", Village: "Beesten", CreationDate: "2024-01-01T09:00:00Z", Labels: []string{"Bezahlt"}},
	})
	require.NoError(t, err)

	assert.Equal(t, set.Fingerprint(), again.Fingerprint())
}
