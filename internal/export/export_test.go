package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pointsRow struct {
	owner  string
	points float64
}

func (r pointsRow) Record() []string {
	return []string{r.owner, Float(r.points, 2)}
}

type shortRow struct{}

func (shortRow) Record() []string { return []string{"only"} }

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	n, err := WriteCSV(path, []string{"Owner", "Points"}, []pointsRow{{"AB", 101.256}, {"C, D", 90}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Owner", "Points"},
		{"AB", "101.26"},
		{"C, D", "90"},
	}, records)
}

func TestWriteCSV_FieldCountMismatch(t *testing.T) {
	_, err := WriteCSV(filepath.Join(t.TempDir(), "bad.csv"), []string{"A", "B"}, []shortRow{{}})
	assert.ErrorContains(t, err, "row 0")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "survivor.json")

	require.NoError(t, WriteJSON(path, map[string]any{"remaining": []string{"AB"}}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), b[len(b)-1])

	var got map[string][]string
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, []string{"AB"}, got["remaining"])
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.0, Round(2.5, 0))
	assert.Equal(t, 4.0, Round(3.5, 0))
	assert.Equal(t, 0.667, Round(2.0/3.0, 3))
	assert.Equal(t, -1.25, Round(-1.249, 2))
	// stored values, not their shortest decimal forms, decide the direction
	assert.Equal(t, 2.67, Round(2.675, 2))
	assert.Equal(t, 1.0, Round(1.005, 2))
	assert.Equal(t, 0.12, Round(0.125, 2))
	assert.Equal(t, "2.67", Float(2.675, 2))
	assert.Equal(t, "12.5", Float(12.50, 2))
	assert.Equal(t, "True", Bool(true))
}
