package merge

import (
	"math"
	"time"
)

// Frame is the merged table: the canonical grid plus one float64 column per
// retained source field. Row count and order always equal the grid; nulls
// are NaN until the gap filler or interpolator replaces them.
type Frame struct {
	Granularity Granularity
	Timestamps  []time.Time
	Columns     []string // merge order: source order, then column order per source
	Data        map[string][]float64

	slotIndex map[time.Time]int
}

// NewFrame builds an all-null frame over the given grid.
func NewFrame(grid []time.Time, g Granularity) *Frame {
	f := &Frame{
		Granularity: g,
		Timestamps:  grid,
		Data:        make(map[string][]float64),
		slotIndex:   make(map[time.Time]int, len(grid)),
	}
	for i, ts := range grid {
		f.slotIndex[ts] = i
	}
	return f
}

// Len returns the row count, which is always the grid length.
func (f *Frame) Len() int { return len(f.Timestamps) }

// HasColumn reports whether the frame carries the named column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.Data[name]
	return ok
}

// Column returns the backing slice for a column, nil if absent.
func (f *Frame) Column(name string) []float64 { return f.Data[name] }

// IsNull reports whether the cell at (row, column) is null.
func (f *Frame) IsNull(col string, row int) bool {
	return math.IsNaN(f.Data[col][row])
}

// addColumn registers an all-null column in merge order.
func (f *Frame) addColumn(name string) []float64 {
	vals := make([]float64, f.Len())
	for i := range vals {
		vals[i] = math.NaN()
	}
	f.Columns = append(f.Columns, name)
	f.Data[name] = vals
	return vals
}
