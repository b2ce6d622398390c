package merge

import "time"

// RawRow is a schema-agnostic map for one CSV row, as produced by the loader.
// Values are typed by the loader: float64, int or string.
type RawRow map[string]interface{}

// SourceDataset is the raw table for one upstream source: all rows from its
// files concatenated in file-then-row order. Immutable once built; later
// stages resolve ties (the "first" reducer) by this order.
type SourceDataset struct {
	Name string
	Rows []RawRow
}

// TimestampKind selects how a row's canonical timestamp is derived.
type TimestampKind string

const (
	// TimestampDirect parses a native datetime column and truncates it to the
	// grid boundary.
	TimestampDirect TimestampKind = "direct"
	// TimestampPeriod derives date + (period-1) x period length from a date
	// column and a 1-based settlement-period index column.
	TimestampPeriod TimestampKind = "period"
)

// TimestampRule declares how one source's rows map onto the grid.
type TimestampRule struct {
	Kind TimestampKind

	// Direct derivation.
	Column  string
	Layouts []string // tried in order; defaults to common ISO layouts

	// Period-indexed derivation.
	DateColumn   string
	DateLayout   string // e.g. "02-Jan-2006" for NESO settlement dates
	PeriodColumn string
	PeriodLength time.Duration // 0 means 30 minutes
}

// columns returns the column names the rule reads, for schema checks.
func (r TimestampRule) columns() []string {
	if r.Kind == TimestampPeriod {
		return []string{r.DateColumn, r.PeriodColumn}
	}
	return []string{r.Column}
}

// Row is a normalized row: the grid slot it belongs to, its position in the
// original file-then-row order, and its numeric values.
type Row struct {
	Slot   time.Time
	Seq    int
	Values map[string]float64
}

// NormalizedSource is a SourceDataset with every surviving row tagged with
// its canonical grid slot.
type NormalizedSource struct {
	Name string
	Rows []Row
	// Dropped counts rows whose timestamp could not be parsed. Dropping is
	// recoverable: the count is surfaced, the run continues.
	Dropped int
	// ClockChangePeriods counts period-indexed rows whose index exceeds 48.
	// The arithmetic rule is still applied to them (see DESIGN.md).
	ClockChangePeriods int
}
