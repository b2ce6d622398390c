package merge

import "math"

// ForwardFill replaces every null in the named columns with the nearest
// preceding non-null value in grid order. Leading nulls before the first
// observation stay null: that is the documented boundary behavior, not a
// defect. Columns not named are left untouched. Returns the number of cells
// filled.
//
// Naming a column the frame does not carry fails with SchemaError so config
// typos surface instead of silently filling nothing.
func ForwardFill(f *Frame, columns []string) (int, error) {
	for _, col := range columns {
		if !f.HasColumn(col) {
			return 0, &SchemaError{Column: col, Reason: "gap fill target not in merged table"}
		}
	}

	filled := 0
	for _, col := range columns {
		vals := f.Data[col]
		last := math.NaN()
		for i := range vals {
			if math.IsNaN(vals[i]) {
				if !math.IsNaN(last) {
					vals[i] = last
					filled++
				}
				continue
			}
			last = vals[i]
		}
	}
	return filled, nil
}
