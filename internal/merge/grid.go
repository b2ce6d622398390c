package merge

import "time"

// Granularity is the spacing of the canonical grid.
type Granularity string

const (
	Daily      Granularity = "daily"
	HalfHourly Granularity = "half_hourly"
)

// Step returns the grid spacing, or 0 for an unknown granularity.
func (g Granularity) Step() time.Duration {
	switch g {
	case Daily:
		return 24 * time.Hour
	case HalfHourly:
		return 30 * time.Minute
	}
	return 0
}

// TimestampLayout is the text form used for grid timestamps in CSV output:
// bare dates on daily grids, date+time on half-hourly grids. Always UTC.
func (g Granularity) TimestampLayout() string {
	if g == Daily {
		return "2006-01-02"
	}
	return "2006-01-02 15:04:05"
}

// Truncate floors t onto the nearest grid boundary at or before it.
func (g Granularity) Truncate(t time.Time) time.Time {
	t = t.UTC()
	if g == Daily {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t.Truncate(30 * time.Minute)
}

// BuildGrid produces the complete, gap-free canonical timestamp axis from
// start to end inclusive. It is a pure function of its inputs: the result has
// length floor((end-start)/step)+1, is strictly increasing and evenly spaced.
// Every merged row aligns to exactly one of these timestamps.
func BuildGrid(start, end time.Time, g Granularity) ([]time.Time, error) {
	step := g.Step()
	if step == 0 {
		return nil, &ConfigError{Field: "granularity", Reason: "unrecognized granularity " + string(g)}
	}
	start, end = start.UTC(), end.UTC()
	if end.Before(start) {
		return nil, &ConfigError{Field: "end_date", Reason: "end date before start date"}
	}

	n := int(end.Sub(start)/step) + 1
	grid := make([]time.Time, n)
	for i := range grid {
		grid[i] = start.Add(time.Duration(i) * step)
	}
	return grid, nil
}
