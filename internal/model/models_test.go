package model

import (
	"testing"

	"gridmerge/internal/merge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() MergeJobSpec {
	return MergeJobSpec{
		StartDate:   "2020-01-01",
		EndDate:     "2020-12-31",
		Granularity: "daily",
		Sources: []SourceSpec{
			{
				Name:        "demand",
				Paths:       []string{"demand.csv"},
				Timestamp:   TimestampSpec{Kind: "period", DateColumn: "SETTLEMENT_DATE", PeriodColumn: "SETTLEMENT_PERIOD"},
				Aggregation: map[string]AggregationRule{"ND": {Reducer: "mean"}},
			},
			{
				Name:        "gas_prices",
				Paths:       []string{"sap.csv"},
				Timestamp:   TimestampSpec{Kind: "direct", Column: "date"},
				Aggregation: map[string]AggregationRule{"SAP": {Reducer: "first"}},
				Derived:     []DerivedColumn{{Name: "SAP_GBP_MWh", From: "SAP", Factor: 10}},
			},
		},
		GapFill: []string{"SAP"},
	}
}

func TestValidateAcceptsCompleteSpec(t *testing.T) {
	spec := validSpec()
	require.NoError(t, spec.Validate())
}

func TestValidateRejectsBadDatesAndGranularity(t *testing.T) {
	spec := validSpec()
	spec.Granularity = "hourly"
	var cfgErr *merge.ConfigError
	require.ErrorAs(t, spec.Validate(), &cfgErr)
	assert.Equal(t, "granularity", cfgErr.Field)

	spec = validSpec()
	spec.EndDate = "2019-01-01"
	require.ErrorAs(t, spec.Validate(), &cfgErr)

	spec = validSpec()
	spec.StartDate = "01/01/2020"
	require.ErrorAs(t, spec.Validate(), &cfgErr)
}

func TestValidateRejectsUnknownReducer(t *testing.T) {
	spec := validSpec()
	spec.Sources[0].Aggregation["ND"] = AggregationRule{Reducer: "median"}

	var cfgErr *merge.ConfigError
	require.ErrorAs(t, spec.Validate(), &cfgErr)
}

func TestValidateRejectsTimestampRuleGaps(t *testing.T) {
	var cfgErr *merge.ConfigError

	spec := validSpec()
	spec.Sources[0].Timestamp = TimestampSpec{Kind: "period", DateColumn: "SETTLEMENT_DATE"}
	require.ErrorAs(t, spec.Validate(), &cfgErr)

	spec = validSpec()
	spec.Sources[1].Timestamp = TimestampSpec{Kind: "direct"}
	require.ErrorAs(t, spec.Validate(), &cfgErr)

	spec = validSpec()
	spec.Sources[1].Timestamp.Kind = "guessed"
	require.ErrorAs(t, spec.Validate(), &cfgErr)
}

func TestValidateRejectsCrossSourceCollisionAfterRename(t *testing.T) {
	spec := validSpec()
	// Renaming the second source's column onto the first source's output name
	// must collide even though the raw names differ.
	spec.Sources[1].Rename = map[string]string{"SAP": "ND"}
	spec.GapFill = nil

	var schemaErr *merge.SchemaError
	require.ErrorAs(t, spec.Validate(), &schemaErr)
	assert.Equal(t, "ND", schemaErr.Column)
}

func TestValidateRejectsUnknownGapFillColumn(t *testing.T) {
	spec := validSpec()
	spec.GapFill = []string{"wind_speed"}

	var schemaErr *merge.SchemaError
	require.ErrorAs(t, spec.Validate(), &schemaErr)
	assert.Equal(t, "wind_speed", schemaErr.Column)
}

func TestValidateInterpolationRules(t *testing.T) {
	spec := validSpec()
	spec.Interpolation = &InterpolationSpec{Columns: []string{"SAP_GBP_MWh"}, Method: "cubic"}
	require.NoError(t, spec.Validate())

	spec.Interpolation = &InterpolationSpec{Columns: []string{"SAP_GBP_MWh"}, Method: "polynomial"}
	var cfgErr *merge.ConfigError
	require.ErrorAs(t, spec.Validate(), &cfgErr) // polynomial needs an order

	spec.Interpolation = &InterpolationSpec{Columns: []string{"unknown"}, Method: "linear"}
	var schemaErr *merge.SchemaError
	require.ErrorAs(t, spec.Validate(), &schemaErr)
}

func TestMergeRuleDefaultsPeriodLength(t *testing.T) {
	ts := TimestampSpec{Kind: "period", DateColumn: "d", PeriodColumn: "p"}
	rule := ts.MergeRule()
	assert.Equal(t, merge.TimestampPeriod, rule.Kind)
	assert.Zero(t, rule.PeriodLength) // the normalizer applies the 30min default
}
