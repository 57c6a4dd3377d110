package snapshot_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeltlager-spelle/campsync/internal/snapshot"
)

func TestFlatten(t *testing.T) {
	flat := snapshot.Flatten(map[string]any{
		"id": "per_1",
		"name": map[string]any{
			"first_name": "Mia",
			"last_name":  "Brüning",
		},
		"label_names":   []any{"Bezahlt", "Frühbucher"},
		"phone_numbers": []any{map[string]any{"number": "+49 0"}},
		"age":           float64(17),
		"active":        true,
		"cancelled_at":  nil,
	})

	assert.Equal(t, "per_1", flat["id"])
	assert.Equal(t, "Mia", flat["name.first_name"])
	assert.Equal(t, "Brüning", flat["name.last_name"])
	assert.Equal(t, "Bezahlt;Frühbucher", flat["label_names"])
	assert.Equal(t, `{"number":"+49 0"}`, flat["phone_numbers"])
	assert.Equal(t, "17", flat["age"])
	assert.Equal(t, "true", flat["active"])
	assert.Equal(t, "", flat["cancelled_at"])
}

func TestWriteProducesSortedHeaderUnion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "campflow.csv")
	w := snapshot.New(path)

	err := w.Write([]map[string]any{
		{"b": "1", "a": "2"},
		{"c": "3"},
	})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"a", "b", "c"}, records[0])
	assert.Equal(t, []string{"2", "1", ""}, records[1])
	assert.Equal(t, []string{"", "", "3"}, records[2])
}

func TestWriteOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campflow.csv")
	w := snapshot.New(path)

	require.NoError(t, w.Write([]map[string]any{{"x": "old"}}))
	require.NoError(t, w.Write([]map[string]any{{"x": "new"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "new")
	assert.NotContains(t, string(data), "old")
}

func TestWriteEmptyPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, snapshot.New(path).Write(nil))

	// Header-only file: just the (empty) field row.
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
