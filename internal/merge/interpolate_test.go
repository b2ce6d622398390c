package merge

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sparseFrame builds a half-hourly frame with anchors at the given slots.
func sparseFrame(t *testing.T, start, end time.Time, anchors map[time.Time]float64) *Frame {
	t.Helper()
	grid, err := BuildGrid(start, end, HalfHourly)
	require.NoError(t, err)

	agg := &AggregatedSource{Name: "prices", Columns: []string{"price"}, Values: map[time.Time]map[string]float64{}}
	for slot, v := range anchors {
		agg.Slots = append(agg.Slots, slot)
		agg.Values[slot] = map[string]float64{"price": v}
	}
	f, err := Merge(grid, HalfHourly, []SourceInput{{Agg: agg}})
	require.NoError(t, err)
	return f
}

func TestInterpolateLinearMidpoints(t *testing.T) {
	start := date(2020, 1, 1)
	f := sparseFrame(t, start, start.Add(2*time.Hour), map[time.Time]float64{
		start:                    10,
		start.Add(2 * time.Hour): 14,
	})

	filled, err := Interpolate(f, "price", Linear, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, filled)
	assert.InDelta(t, 11.0, f.Data["price"][1], 1e-9)
	assert.InDelta(t, 12.0, f.Data["price"][2], 1e-9)
	assert.InDelta(t, 13.0, f.Data["price"][3], 1e-9)
}

func TestInterpolateNeverExtrapolates(t *testing.T) {
	start := date(2020, 1, 1)
	// Anchors cover only the middle of the grid.
	f := sparseFrame(t, start, start.Add(3*time.Hour), map[time.Time]float64{
		start.Add(1 * time.Hour): 5,
		start.Add(2 * time.Hour): 6,
	})

	_, err := Interpolate(f, "price", Linear, 0)
	require.NoError(t, err)
	assert.True(t, f.IsNull("price", 0), "before first anchor stays null")
	assert.True(t, f.IsNull("price", 1))
	assert.InDelta(t, 5.5, f.Data["price"][3], 1e-9)
	assert.True(t, f.IsNull("price", 5), "after last anchor stays null")
	assert.True(t, f.IsNull("price", 6))
}

func TestInterpolateCubicNeedsFourAnchors(t *testing.T) {
	start := date(2020, 1, 1)
	f := sparseFrame(t, start, start.Add(2*time.Hour), map[time.Time]float64{
		start:                    1,
		start.Add(1 * time.Hour): 2,
		start.Add(2 * time.Hour): 3,
	})

	_, err := Interpolate(f, "price", Cubic, 0)
	var anchorsErr *InsufficientAnchorsError
	require.ErrorAs(t, err, &anchorsErr)
	assert.Equal(t, 4, anchorsErr.Need)
	assert.Equal(t, 3, anchorsErr.Got)
}

func TestInterpolateCubicFillsBetweenAnchors(t *testing.T) {
	start := date(2020, 1, 1)
	f := sparseFrame(t, start, start.Add(3*time.Hour), map[time.Time]float64{
		start:                    1,
		start.Add(1 * time.Hour): 2,
		start.Add(2 * time.Hour): 4,
		start.Add(3 * time.Hour): 8,
	})

	filled, err := Interpolate(f, "price", Cubic, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, filled)
	for i := range f.Timestamps {
		assert.False(t, f.IsNull("price", i))
	}
}

func TestInterpolateNearest(t *testing.T) {
	start := date(2020, 1, 1)
	f := sparseFrame(t, start, start.Add(2*time.Hour), map[time.Time]float64{
		start:                    10,
		start.Add(2 * time.Hour): 20,
	})

	_, err := Interpolate(f, "price", Nearest, 0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, f.Data["price"][1]) // 00:30 is nearer the 00:00 anchor
	assert.Equal(t, 10.0, f.Data["price"][2]) // ties resolve to the left anchor
	assert.Equal(t, 20.0, f.Data["price"][3])
}

func TestInterpolatePolynomialReproducesParabola(t *testing.T) {
	start := date(2020, 1, 1)
	anchors := map[time.Time]float64{}
	// y = x^2 with x in half-hour steps from the start.
	for _, h := range []int{0, 2, 4} {
		anchors[start.Add(time.Duration(h)*time.Hour)] = float64(h * 2 * h * 2)
	}
	f := sparseFrame(t, start, start.Add(4*time.Hour), anchors)

	_, err := Interpolate(f, "price", Polynomial, 2)
	require.NoError(t, err)
	// A degree-2 polynomial through three parabola points is the parabola.
	for i, ts := range f.Timestamps {
		x := ts.Sub(start).Hours() * 2
		assert.InDelta(t, x*x, f.Data["price"][i], 1e-6, "slot %d", i)
	}
}

func TestInterpolatePolynomialAnchorMinimum(t *testing.T) {
	start := date(2020, 1, 1)
	f := sparseFrame(t, start, start.Add(time.Hour), map[time.Time]float64{
		start:                1,
		start.Add(time.Hour): 2,
	})

	_, err := Interpolate(f, "price", Polynomial, 3)
	var anchorsErr *InsufficientAnchorsError
	require.ErrorAs(t, err, &anchorsErr)
}

func TestInterpolateUnknownMethod(t *testing.T) {
	start := date(2020, 1, 1)
	f := sparseFrame(t, start, start.Add(time.Hour), map[time.Time]float64{start: 1})

	_, err := Interpolate(f, "price", InterpolationMethod("quadratic"), 0)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestInterpolateLeavesExistingValues(t *testing.T) {
	start := date(2020, 1, 1)
	f := sparseFrame(t, start, start.Add(time.Hour), map[time.Time]float64{
		start:                       3,
		start.Add(30 * time.Minute): 100,
		start.Add(60 * time.Minute): 5,
	})

	filled, err := Interpolate(f, "price", Linear, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, filled)
	assert.Equal(t, 100.0, f.Data["price"][1])
	assert.False(t, math.IsNaN(f.Data["price"][2]))
}
