package merge

import (
	"time"
)

// defaultLayouts are tried in order for direct timestamp columns when the
// rule does not name its own.
var defaultLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const defaultPeriodLength = 30 * time.Minute

// Normalize tags every row of ds with the canonical grid slot it belongs to,
// per the source's timestamp derivation rule. Rows whose timestamp cannot be
// parsed are dropped and counted, never silently merged. Only numeric cell
// values are carried forward; the merge core has no use for free text.
//
// Fails with MissingTimestampError when the rule's column(s) appear in no row
// at all, and ConfigError for an unknown rule kind.
func Normalize(ds *SourceDataset, rule TimestampRule, g Granularity) (*NormalizedSource, error) {
	if g.Step() == 0 {
		return nil, &ConfigError{Field: "granularity", Reason: "unrecognized granularity " + string(g)}
	}

	ns := &NormalizedSource{Name: ds.Name}
	sawTimestampField := false

	for i, raw := range ds.Rows {
		var slot time.Time
		var ok, present bool

		switch rule.Kind {
		case TimestampDirect:
			slot, present, ok = deriveDirect(raw, rule)
		case TimestampPeriod:
			var clockChange bool
			slot, present, ok, clockChange = derivePeriod(raw, rule)
			if clockChange {
				ns.ClockChangePeriods++
			}
		default:
			return nil, &ConfigError{Field: "timestamp.kind", Reason: "unknown derivation rule " + string(rule.Kind)}
		}

		if present {
			sawTimestampField = true
		}
		if !ok {
			ns.Dropped++
			continue
		}
		// Period derivation yields an absolute timestamp; bucketing onto a
		// coarser grid (daily) still floors it to the grid boundary.
		slot = g.Truncate(slot)

		values := make(map[string]float64)
		for col, v := range raw {
			if f, isNum := numeric(v); isNum {
				values[col] = f
			}
		}
		ns.Rows = append(ns.Rows, Row{Slot: slot, Seq: i, Values: values})
	}

	if !sawTimestampField && len(ds.Rows) > 0 {
		return nil, &MissingTimestampError{Source: ds.Name, Columns: rule.columns()}
	}
	return ns, nil
}

// deriveDirect parses the native datetime column. present reports whether
// the column existed on the row at all.
func deriveDirect(raw RawRow, rule TimestampRule) (slot time.Time, present, ok bool) {
	v, exists := raw[rule.Column]
	if !exists {
		return time.Time{}, false, false
	}
	s, isStr := v.(string)
	if !isStr {
		return time.Time{}, true, false
	}

	layouts := rule.Layouts
	if len(layouts) == 0 {
		layouts = defaultLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true, true
		}
	}
	return time.Time{}, true, false
}

// derivePeriod computes date + (period-1) x period length. The period index
// is 1-based: period 1 on a given date maps to that date's midnight.
// Indexes above 48 occur on clock-change days; the same arithmetic applies.
func derivePeriod(raw RawRow, rule TimestampRule) (slot time.Time, present, ok, clockChange bool) {
	dv, hasDate := raw[rule.DateColumn]
	pv, hasPeriod := raw[rule.PeriodColumn]
	present = hasDate || hasPeriod
	if !hasDate || !hasPeriod {
		return time.Time{}, present, false, false
	}

	ds, isStr := dv.(string)
	if !isStr {
		return time.Time{}, present, false, false
	}
	layout := rule.DateLayout
	if layout == "" {
		layout = "2006-01-02"
	}
	date, err := time.ParseInLocation(layout, ds, time.UTC)
	if err != nil {
		return time.Time{}, present, false, false
	}

	period, isNum := numeric(pv)
	if !isNum || period < 1 || period != float64(int(period)) {
		return time.Time{}, present, false, false
	}

	length := rule.PeriodLength
	if length == 0 {
		length = defaultPeriodLength
	}
	slot = date.Add(time.Duration(int(period)-1) * length)
	return slot, present, true, period > 48
}

// numeric converts loader-typed cell values to float64.
func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
