package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetric(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		value    float64
		previous float64
		want     Metric
	}{
		{
			name:     "currency-up",
			unit:     "CNY",
			value:    7500000,
			previous: 5000000,
			want: Metric{Name: "currency-up", Value: 7500000, PreviousValue: 5000000, Change: 2500000,
				ChangePercent: 50, Unit: "CNY", Trend: TrendUp},
		},
		{
			name:     "count-rounded",
			unit:     "orders",
			value:    11999.6,
			previous: 12000,
			want: Metric{Name: "count-rounded", Value: 12000, PreviousValue: 12000, Change: 0,
				ChangePercent: 0, Unit: "orders", Trend: TrendStable},
		},
		{
			name:     "percent-down",
			unit:     "%",
			value:    28.456,
			previous: 35,
			want: Metric{Name: "percent-down", Value: 28.46, PreviousValue: 35, Change: -6.54,
				ChangePercent: -18.69, Unit: "%", Trend: TrendDown},
		},
		{
			name:     "stable-band",
			unit:     "CNY",
			value:    5099000,
			previous: 5000000,
			want: Metric{Name: "stable-band", Value: 5099000, PreviousValue: 5000000, Change: 99000,
				ChangePercent: 1.98, Unit: "CNY", Trend: TrendStable},
		},
		{
			name:     "previous-rounds-to-zero",
			unit:     "CNY",
			value:    5000000,
			previous: 0.3,
			want: Metric{Name: "previous-rounds-to-zero", Value: 5000000, PreviousValue: 0, Change: 5000000,
				ChangePercent: 0, Unit: "CNY", Trend: TrendStable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMetric(tt.name, tt.unit, tt.value, tt.previous)
			assert.Equal(t, tt.want.Value, got.Value)
			assert.Equal(t, tt.want.PreviousValue, got.PreviousValue)
			assert.InDelta(t, tt.want.Change, got.Change, 1e-9)
			assert.InDelta(t, tt.want.ChangePercent, got.ChangePercent, 1e-9)
			assert.Equal(t, tt.want.Trend, got.Trend)
			assert.Equal(t, tt.want.Unit, got.Unit)
		})
	}
}

func TestTrendFor(t *testing.T) {
	assert.Equal(t, TrendStable, TrendFor(1.99))
	assert.Equal(t, TrendStable, TrendFor(-1.99))
	assert.Equal(t, TrendUp, TrendFor(2))
	assert.Equal(t, TrendDown, TrendFor(-2))
}

func TestMetricIDFromName(t *testing.T) {
	id, ok := MetricIDFromName("Gross Margin")
	require.True(t, ok)
	assert.Equal(t, MetricGrossMargin, id)

	id, ok = MetricIDFromName("activeusers")
	require.True(t, ok)
	assert.Equal(t, MetricActiveUsers, id)

	_, ok = MetricIDFromName("Employee Productivity")
	assert.False(t, ok)

	for _, id := range AllMetricIDs() {
		back, ok := MetricIDFromName(id.DisplayName())
		require.True(t, ok)
		assert.Equal(t, id, back)
	}
}

func TestPreviousDataLookup(t *testing.T) {
	prev := &PreviousData{Metrics: []Metric{
		{Name: "Revenue", Value: 5000000},
		{Name: "Orders", Value: 0},
	}}

	v, ok := prev.Lookup(MetricRevenue)
	require.True(t, ok)
	assert.Equal(t, 5000000.0, v)

	_, ok = prev.Lookup(MetricOrders)
	assert.False(t, ok, "zero previous values must not be used as a divisor")

	var nilPrev *PreviousData
	_, ok = nilPrev.Lookup(MetricRevenue)
	assert.False(t, ok)
}

func TestSortAlerts(t *testing.T) {
	alerts := []Alert{
		{ID: "a", Level: AlertInfo, Timestamp: 3},
		{ID: "b", Level: AlertCritical, Timestamp: 1},
		{ID: "c", Level: AlertWarning, Timestamp: 2},
		{ID: "d", Level: AlertCritical, Timestamp: 5},
	}
	SortAlerts(alerts)

	ids := make([]string, 0, len(alerts))
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids)
}

func TestSnapshotNormalize(t *testing.T) {
	s := &Snapshot{}
	s.Normalize()
	assert.NotNil(t, s.Metrics)
	assert.NotNil(t, s.RegionalData)
	assert.NotNil(t, s.RiskData)
	assert.NotNil(t, s.Alerts)
}
