package merge

import "time"

// SourceInput pairs an aggregated source with its column rename mapping.
// Renames are declarative and data-driven: the merger applies them, it never
// hardcodes per-source dictionaries.
type SourceInput struct {
	Agg    *AggregatedSource
	Rename map[string]string
}

// outputName maps a source column through the rename table.
func (in SourceInput) outputName(col string) string {
	if renamed, ok := in.Rename[col]; ok {
		return renamed
	}
	return col
}

// Merge left-joins every aggregated source onto the canonical grid by exact
// timestamp equality. The grid alone determines row count and order; source
// slots outside it are ignored, grid slots without a source row stay null.
// Column collisions across sources (after renaming) fail with SchemaError
// before any values are joined — no silent overwrite.
func Merge(grid []time.Time, g Granularity, sources []SourceInput) (*Frame, error) {
	// Collision check over the full output column set first, so a failed run
	// never produces a partially merged frame.
	owner := make(map[string]string)
	for _, in := range sources {
		for _, col := range in.Agg.Columns {
			name := in.outputName(col)
			if prev, taken := owner[name]; taken {
				return nil, &SchemaError{
					Source: in.Agg.Name,
					Column: name,
					Reason: "column already provided by source " + prev,
				}
			}
			owner[name] = in.Agg.Name
		}
	}

	f := NewFrame(grid, g)
	for _, in := range sources {
		cols := make(map[string][]float64, len(in.Agg.Columns))
		for _, col := range in.Agg.Columns {
			cols[col] = f.addColumn(in.outputName(col))
		}
		for _, slot := range in.Agg.Slots {
			row, onGrid := f.slotIndex[slot]
			if !onGrid {
				continue
			}
			for _, col := range in.Agg.Columns {
				cols[col][row] = in.Agg.Values[slot][col]
			}
		}
	}
	return f, nil
}
