package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gridmerge/internal/merge"
	"gridmerge/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dailyFrame builds a three day frame with one value missing on the middle day.
func dailyFrame(t *testing.T) *merge.Frame {
	t.Helper()
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

	grid, err := merge.BuildGrid(day(1), day(3), merge.Daily)
	require.NoError(t, err)

	agg := &merge.AggregatedSource{
		Name:    "prices",
		Columns: []string{"price"},
		Slots:   []time.Time{day(1), day(3)},
		Values: map[time.Time]map[string]float64{
			day(1): {"price": 41.5},
			day(3): {"price": 43},
		},
	}
	frame, err := merge.Merge(grid, merge.Daily, []merge.SourceInput{{Agg: agg}})
	require.NoError(t, err)
	return frame
}

func TestWriteFrameCSVFormat(t *testing.T) {
	frame := dailyFrame(t)
	path := filepath.Join(t.TempDir(), "merged.csv")

	n, err := WriteFrameCSV(frame, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "timestamp,price\n" +
		"2024-01-01,41.5\n" +
		"2024-01-02,\n" +
		"2024-01-03,43\n"
	assert.Equal(t, expected, string(data))
}

func TestWriteFrameCSVDeterministic(t *testing.T) {
	frame := dailyFrame(t)
	dir := t.TempDir()

	first := filepath.Join(dir, "one.csv")
	second := filepath.Join(dir, "two.csv")
	_, err := WriteFrameCSV(frame, first)
	require.NoError(t, err)
	_, err = WriteFrameCSV(frame, second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteFrameCSVCreatesDirectories(t *testing.T) {
	frame := dailyFrame(t)
	path := filepath.Join(t.TempDir(), "outputs", "job-1", "merged.csv")

	_, err := WriteFrameCSV(frame, path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestExportFrameNoConfig(t *testing.T) {
	frame := dailyFrame(t)

	results, err := ExportFrame(context.Background(), "job-1", model.MergeJobSpec{}, frame)
	require.NoError(t, err)
	assert.Empty(t, results)
}
