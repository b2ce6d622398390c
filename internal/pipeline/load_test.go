package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gridmerge/internal/merge"
	"gridmerge/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func directSource(name string, paths ...string) model.SourceSpec {
	return model.SourceSpec{
		Name:      name,
		Paths:     paths,
		Timestamp: model.TimestampSpec{Kind: "direct", Column: "date"},
		Aggregation: map[string]model.AggregationRule{
			"value": {Reducer: "mean"},
		},
	}
}

func TestLoadSourceConcatenatesInFileOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "date,value\n2024-01-01,1\n2024-01-02,2\n")
	b := writeCSV(t, dir, "b.csv", "date,value\n2024-01-03,3\n")

	ds, err := LoadSource(context.Background(), directSource("prices", a, b))
	require.NoError(t, err)
	require.Len(t, ds.Rows, 3)

	assert.Equal(t, "2024-01-01", ds.Rows[0]["date"])
	assert.Equal(t, "2024-01-02", ds.Rows[1]["date"])
	assert.Equal(t, "2024-01-03", ds.Rows[2]["date"])
	assert.Equal(t, 1, ds.Rows[0]["value"])
}

func TestLoadSourceOverlappingFilesBothSurvive(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "date,value\n2024-01-01,10\n")
	b := writeCSV(t, dir, "b.csv", "date,value\n2024-01-01,20\n")

	ds, err := LoadSource(context.Background(), directSource("prices", a, b))
	require.NoError(t, err)

	// The loader never deduplicates; overlap resolution is the reducer's job.
	require.Len(t, ds.Rows, 2)
	assert.Equal(t, 10, ds.Rows[0]["value"])
	assert.Equal(t, 20, ds.Rows[1]["value"])
}

func TestLoadSourceMissingFile(t *testing.T) {
	_, err := LoadSource(context.Background(), directSource("prices", "/nonexistent/nope.csv"))
	require.Error(t, err)

	var loadErr *merge.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "prices", loadErr.Source)
}

func TestLoadSourceMissingTimestampColumn(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "when,value\n2024-01-01,1\n")

	_, err := LoadSource(context.Background(), directSource("prices", a))
	require.Error(t, err)

	var schemaErr *merge.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "date", schemaErr.Column)
}

func TestLoadSourceEmptyCellsAbsent(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "date,value\n2024-01-01,\n2024-01-02,5\n")

	ds, err := LoadSource(context.Background(), directSource("prices", a))
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)

	_, present := ds.Rows[0]["value"]
	assert.False(t, present, "empty cell should not materialize a value")
	assert.Equal(t, 5, ds.Rows[1]["value"])
}

func TestLoadSourcePeriodColumnsRequired(t *testing.T) {
	dir := t.TempDir()
	a := writeCSV(t, dir, "a.csv", "settlement_date,value\n2024-01-01,1\n")

	src := model.SourceSpec{
		Name:  "system_prices",
		Paths: []string{a},
		Timestamp: model.TimestampSpec{
			Kind:         "period",
			DateColumn:   "settlement_date",
			PeriodColumn: "settlement_period",
		},
		Aggregation: map[string]model.AggregationRule{"value": {Reducer: "mean"}},
	}
	_, err := LoadSource(context.Background(), src)

	var schemaErr *merge.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "settlement_period", schemaErr.Column)
}
