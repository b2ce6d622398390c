package model

import (
	"fmt"
	"time"

	"gridmerge/internal/merge"
)

// TimestampSpec declares how a source's native timestamps map onto the grid.
type TimestampSpec struct {
	Kind         string   `json:"kind" yaml:"kind"` // "direct" or "period"
	Column       string   `json:"column,omitempty" yaml:"column,omitempty"`
	Layouts      []string `json:"layouts,omitempty" yaml:"layouts,omitempty"`
	DateColumn   string   `json:"dateColumn,omitempty" yaml:"date_column,omitempty"`
	DateLayout   string   `json:"dateLayout,omitempty" yaml:"date_layout,omitempty"`
	PeriodColumn string   `json:"periodColumn,omitempty" yaml:"period_column,omitempty"`
	// PeriodMinutes is the fixed sub-daily interval; 0 means 30 minutes.
	PeriodMinutes int `json:"periodMinutes,omitempty" yaml:"period_minutes,omitempty"`
}

// AggregationRule maps one column to its reducer and optional pre-reduction
// default.
type AggregationRule struct {
	Reducer string   `json:"reducer" yaml:"reducer"` // mean, sum, first
	Default *float64 `json:"default,omitempty" yaml:"default,omitempty"`
}

// DerivedColumn is a column computed from another by a fixed factor, e.g.
// the SAP p/kWh to GBP/MWh conversion (factor 10).
type DerivedColumn struct {
	Name   string  `json:"name" yaml:"name"`
	From   string  `json:"from" yaml:"from"`
	Factor float64 `json:"factor" yaml:"factor"`
}

// SourceSpec configures one upstream dataset: where its files live, how its
// timestamps are derived, and how its columns reduce and rename.
type SourceSpec struct {
	Name        string                     `json:"name" yaml:"name"`
	Paths       []string                   `json:"paths" yaml:"paths"`
	Timestamp   TimestampSpec              `json:"timestamp" yaml:"timestamp"`
	Aggregation map[string]AggregationRule `json:"aggregation" yaml:"aggregation"`
	Rename      map[string]string          `json:"rename,omitempty" yaml:"rename,omitempty"`
	Derived     []DerivedColumn            `json:"derived,omitempty" yaml:"derived,omitempty"`
}

// ExportSpec defines export targets for the merged table.
type ExportSpec struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"` // e.g. merged.csv
	DB   bool   `json:"db,omitempty" yaml:"db,omitempty"`     // persist rows in the tracking store
}

// InterpolationSpec upsamples coarse columns onto the fine grid.
type InterpolationSpec struct {
	Columns []string `json:"columns" yaml:"columns"`
	Method  string   `json:"method" yaml:"method"` // linear, nearest, cubic, polynomial
	Order   int      `json:"order,omitempty" yaml:"order,omitempty"`
}

// ConcurrencyConfig defines worker and timeout options for a run.
type ConcurrencyConfig struct {
	SourceWorkers int    `json:"sourceWorkers,omitempty" yaml:"source_workers,omitempty"`
	JobTimeout    string `json:"jobTimeout,omitempty" yaml:"job_timeout,omitempty"` // e.g. "5m"
}

// MergeJobSpec defines one complete merge run: the canonical grid, every
// source, and the post-merge fill steps.
type MergeJobSpec struct {
	StartDate     string             `json:"startDate" yaml:"start_date"` // 2006-01-02
	EndDate       string             `json:"endDate" yaml:"end_date"`
	Granularity   string             `json:"granularity" yaml:"granularity"` // daily, half_hourly
	Sources       []SourceSpec       `json:"sources" yaml:"sources"`
	GapFill       []string           `json:"gapFillColumns,omitempty" yaml:"gap_fill_columns,omitempty"`
	Interpolation *InterpolationSpec `json:"interpolation,omitempty" yaml:"interpolation,omitempty"`
	Export        *ExportSpec        `json:"export,omitempty" yaml:"export,omitempty"`
	Concurrency   ConcurrencyConfig  `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
}

// Dates parses the configured date range.
func (s *MergeJobSpec) Dates() (start, end time.Time, err error) {
	start, err = time.ParseInLocation("2006-01-02", s.StartDate, time.UTC)
	if err != nil {
		return start, end, &merge.ConfigError{Field: "start_date", Reason: err.Error()}
	}
	end, err = time.ParseInLocation("2006-01-02", s.EndDate, time.UTC)
	if err != nil {
		return start, end, &merge.ConfigError{Field: "end_date", Reason: err.Error()}
	}
	return start, end, nil
}

// MergeRule converts the wire form into the core timestamp rule.
func (ts TimestampSpec) MergeRule() merge.TimestampRule {
	return merge.TimestampRule{
		Kind:         merge.TimestampKind(ts.Kind),
		Column:       ts.Column,
		Layouts:      ts.Layouts,
		DateColumn:   ts.DateColumn,
		DateLayout:   ts.DateLayout,
		PeriodColumn: ts.PeriodColumn,
		PeriodLength: time.Duration(ts.PeriodMinutes) * time.Minute,
	}
}

// MergeRules converts the wire aggregation map into core rules.
func (s SourceSpec) MergeRules() map[string]merge.AggregationRule {
	rules := make(map[string]merge.AggregationRule, len(s.Aggregation))
	for col, rule := range s.Aggregation {
		rules[col] = merge.AggregationRule{Reducer: merge.Reducer(rule.Reducer), Default: rule.Default}
	}
	return rules
}

// Validate rejects a malformed spec before the pipeline starts: bad date
// range or granularity, unknown reducers or derivation kinds, cross-source
// output column collisions, and gap-fill/interpolation targets no source
// provides. Everything surfaces as the core's typed error kinds.
func (s *MergeJobSpec) Validate() error {
	start, end, err := s.Dates()
	if err != nil {
		return err
	}
	g := merge.Granularity(s.Granularity)
	if g.Step() == 0 {
		return &merge.ConfigError{Field: "granularity", Reason: "must be daily or half_hourly"}
	}
	if end.Before(start) {
		return &merge.ConfigError{Field: "end_date", Reason: "end date before start date"}
	}
	if len(s.Sources) == 0 {
		return &merge.ConfigError{Field: "sources", Reason: "at least one source is required"}
	}

	// Output column ownership across all sources, renames and derived
	// columns applied, so collisions fail here instead of mid-run.
	owner := make(map[string]string)
	for _, src := range s.Sources {
		if src.Name == "" {
			return &merge.ConfigError{Field: "sources", Reason: "source name is required"}
		}
		if len(src.Paths) == 0 {
			return &merge.ConfigError{Field: "sources." + src.Name + ".paths", Reason: "at least one path is required"}
		}
		switch merge.TimestampKind(src.Timestamp.Kind) {
		case merge.TimestampDirect:
			if src.Timestamp.Column == "" {
				return &merge.ConfigError{Field: "sources." + src.Name + ".timestamp.column", Reason: "required for direct derivation"}
			}
		case merge.TimestampPeriod:
			if src.Timestamp.DateColumn == "" || src.Timestamp.PeriodColumn == "" {
				return &merge.ConfigError{Field: "sources." + src.Name + ".timestamp", Reason: "period derivation needs date and period columns"}
			}
		default:
			return &merge.ConfigError{Field: "sources." + src.Name + ".timestamp.kind", Reason: "must be direct or period"}
		}
		if len(src.Aggregation) == 0 {
			return &merge.ConfigError{Field: "sources." + src.Name + ".aggregation", Reason: "every contributed column needs exactly one rule"}
		}

		for col, rule := range src.Aggregation {
			if !merge.Reducer(rule.Reducer).Valid() {
				return &merge.ConfigError{
					Field:  fmt.Sprintf("sources.%s.aggregation.%s", src.Name, col),
					Reason: "reducer must be mean, sum or first",
				}
			}
		}

		for _, col := range src.outputColumns() {
			if prev, taken := owner[col]; taken {
				return &merge.SchemaError{Source: src.Name, Column: col, Reason: "column already provided by source " + prev}
			}
			owner[col] = src.Name
		}
	}

	for _, col := range s.GapFill {
		if _, ok := owner[col]; !ok {
			return &merge.SchemaError{Column: col, Reason: "gap fill target provided by no source"}
		}
	}
	if s.Interpolation != nil {
		switch merge.InterpolationMethod(s.Interpolation.Method) {
		case merge.Linear, merge.Nearest, merge.Cubic:
		case merge.Polynomial:
			if s.Interpolation.Order < 1 {
				return &merge.ConfigError{Field: "interpolation.order", Reason: "polynomial order must be at least 1"}
			}
		default:
			return &merge.ConfigError{Field: "interpolation.method", Reason: "must be linear, nearest, cubic or polynomial"}
		}
		if len(s.Interpolation.Columns) == 0 {
			return &merge.ConfigError{Field: "interpolation.columns", Reason: "at least one column is required"}
		}
		for _, col := range s.Interpolation.Columns {
			if _, ok := owner[col]; !ok {
				return &merge.SchemaError{Column: col, Reason: "interpolation target provided by no source"}
			}
		}
	}
	return nil
}

// outputColumns lists the merged-table column names a source contributes:
// aggregated columns after renaming, plus derived columns.
func (s SourceSpec) outputColumns() []string {
	var cols []string
	seen := make(map[string]bool)
	for col := range s.Aggregation {
		name := col
		if renamed, ok := s.Rename[col]; ok {
			name = renamed
		}
		if !seen[name] {
			cols = append(cols, name)
			seen[name] = true
		}
	}
	for _, d := range s.Derived {
		name := d.Name
		if renamed, ok := s.Rename[d.Name]; ok {
			name = renamed
		}
		if !seen[name] {
			cols = append(cols, name)
			seen[name] = true
		}
	}
	return cols
}
