package merge

import (
	"math"
	"sort"
	"time"
)

// Reducer is the aggregation function applied to values sharing a grid slot.
type Reducer string

const (
	Mean  Reducer = "mean"
	Sum   Reducer = "sum"
	First Reducer = "first"
)

// Valid reports whether r names a known reducer.
func (r Reducer) Valid() bool {
	return r == Mean || r == Sum || r == First
}

// AggregationRule maps one column to its reducer. A non-nil Default is
// substituted for the column on every row missing it, before reduction: a
// sum over a slot with partially-missing optional columns is the sum of
// present values plus defaults. Columns without a default reduce over the
// values actually present in the slot.
type AggregationRule struct {
	Reducer Reducer
	Default *float64
}

// AggregatedSource holds one value row per occupied grid slot for one
// source. Slots are sorted ascending; Columns keep a fixed, sorted order so
// repeated runs produce byte-identical output.
type AggregatedSource struct {
	Name    string
	Columns []string
	Slots   []time.Time
	// Values[slot][column]; NaN marks a slot where a no-default column had no
	// present value.
	Values map[time.Time]map[string]float64
}

// slotAccum accumulates one slot's running reductions.
type slotAccum struct {
	sum      map[string]float64
	count    map[string]int
	first    map[string]float64
	firstSeq map[string]int
}

// Aggregate groups normalized rows by grid slot and reduces every configured
// column. Only columns named in rules appear in the output; "first" resolves
// ties by original file-then-row order. Running it twice on identical input
// yields identical output.
func Aggregate(ns *NormalizedSource, rules map[string]AggregationRule) (*AggregatedSource, error) {
	columns := make([]string, 0, len(rules))
	for col, rule := range rules {
		if !rule.Reducer.Valid() {
			return nil, &ConfigError{Field: "aggregation." + col, Reason: "unknown reducer " + string(rule.Reducer)}
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)

	accums := make(map[time.Time]*slotAccum)
	for _, row := range ns.Rows {
		acc, ok := accums[row.Slot]
		if !ok {
			acc = &slotAccum{
				sum:      make(map[string]float64),
				count:    make(map[string]int),
				first:    make(map[string]float64),
				firstSeq: make(map[string]int),
			}
			accums[row.Slot] = acc
		}

		for _, col := range columns {
			rule := rules[col]
			v, present := row.Values[col]
			if !present {
				if rule.Default == nil {
					continue
				}
				v = *rule.Default
			}

			acc.sum[col] += v
			acc.count[col]++
			if seq, seen := acc.firstSeq[col]; !seen || row.Seq < seq {
				acc.first[col] = v
				acc.firstSeq[col] = row.Seq
			}
		}
	}

	agg := &AggregatedSource{
		Name:    ns.Name,
		Columns: columns,
		Slots:   make([]time.Time, 0, len(accums)),
		Values:  make(map[time.Time]map[string]float64, len(accums)),
	}
	for slot := range accums {
		agg.Slots = append(agg.Slots, slot)
	}
	sort.Slice(agg.Slots, func(i, j int) bool { return agg.Slots[i].Before(agg.Slots[j]) })

	for _, slot := range agg.Slots {
		acc := accums[slot]
		out := make(map[string]float64, len(columns))
		for _, col := range columns {
			n := acc.count[col]
			if n == 0 {
				out[col] = math.NaN()
				continue
			}
			switch rules[col].Reducer {
			case Mean:
				out[col] = acc.sum[col] / float64(n)
			case Sum:
				out[col] = acc.sum[col]
			case First:
				out[col] = acc.first[col]
			}
		}
		agg.Values[slot] = out
	}
	return agg, nil
}

// AddDerived appends a column computed as an existing column scaled by a
// fixed factor (e.g. the SAP p/kWh to GBP/MWh x10 conversion). Fails with
// SchemaError if the base column is absent or the name already taken.
func (a *AggregatedSource) AddDerived(name, from string, factor float64) error {
	if !containsColumn(a.Columns, from) {
		return &SchemaError{Source: a.Name, Column: from, Reason: "derived column base not found"}
	}
	if containsColumn(a.Columns, name) {
		return &SchemaError{Source: a.Name, Column: name, Reason: "derived column name already in use"}
	}
	a.Columns = append(a.Columns, name)
	for _, slot := range a.Slots {
		a.Values[slot][name] = a.Values[slot][from] * factor
	}
	return nil
}

func containsColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
