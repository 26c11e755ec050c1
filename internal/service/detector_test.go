package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bi-data-explainer/backend/internal/model"
)

func newTestDetector() *Detector {
	var seq int
	return NewDetector(DefaultAlertCooldown,
		WithDetectorClock(fixedClock),
		WithDetectorIDs(func() string {
			seq++
			return fmt.Sprintf("alert-%d", seq)
		}),
	)
}

func changeMetric(name string, changePercent float64) model.Metric {
	return model.Metric{Name: name, Value: 100, PreviousValue: 100, ChangePercent: changePercent}
}

func TestDetectRules(t *testing.T) {
	tests := []struct {
		name      string
		metric    model.Metric
		wantLevel model.AlertLevel
		wantValue float64
		wantLimit float64
	}{
		{name: "revenue severe decline", metric: changeMetric("Revenue", -25), wantLevel: model.AlertCritical, wantValue: -25, wantLimit: -20},
		{name: "revenue decline at critical boundary", metric: changeMetric("Revenue", -20), wantLevel: model.AlertWarning, wantValue: -20, wantLimit: -10},
		{name: "revenue moderate decline", metric: changeMetric("Revenue", -15), wantLevel: model.AlertWarning, wantValue: -15, wantLimit: -10},
		{name: "revenue decline at warning boundary", metric: changeMetric("Revenue", -10)},
		{name: "revenue growth at boundary", metric: changeMetric("Revenue", 30)},
		{name: "revenue strong growth", metric: changeMetric("Revenue", 30.01), wantLevel: model.AlertInfo, wantValue: 30.01, wantLimit: 30},
		{name: "gross margin critical", metric: model.Metric{Name: "Gross Margin", Value: 19.99, Unit: "%"}, wantLevel: model.AlertCritical, wantValue: 19.99, wantLimit: 20},
		{name: "gross margin at critical boundary", metric: model.Metric{Name: "Gross Margin", Value: 20, Unit: "%"}, wantLevel: model.AlertWarning, wantValue: 20, wantLimit: 30},
		{name: "gross margin healthy", metric: model.Metric{Name: "Gross Margin", Value: 30, Unit: "%"}},
		{name: "conversion at boundary", metric: changeMetric("Conversion Rate", -15)},
		{name: "conversion decline", metric: changeMetric("Conversion Rate", -15.01), wantLevel: model.AlertWarning, wantValue: -15.01, wantLimit: -15},
		{name: "active users at boundary", metric: changeMetric("Active Users", -25)},
		{name: "active users churn", metric: changeMetric("Active Users", -25.5), wantLevel: model.AlertCritical, wantValue: -25.5, wantLimit: -25},
		{name: "orders surge at boundary", metric: changeMetric("Orders", 50)},
		{name: "orders surge", metric: changeMetric("Orders", 51), wantLevel: model.AlertInfo, wantValue: 51, wantLimit: 50},
		{name: "orders drop at boundary", metric: changeMetric("Orders", -30)},
		{name: "orders collapse", metric: changeMetric("Orders", -31), wantLevel: model.AlertCritical, wantValue: -31, wantLimit: -30},
		{name: "metric without rule", metric: changeMetric("Repurchase Rate", -90)},
		{name: "unknown metric", metric: changeMetric("Churn", -90)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := newTestDetector().Detect([]model.Metric{tt.metric}, model.ScenarioNormal, nil)

			if tt.wantLevel == "" {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			a := alerts[0]
			assert.Equal(t, "alert-1", a.ID)
			assert.Equal(t, tt.wantLevel, a.Level)
			assert.Equal(t, tt.metric.Name, a.Metric)
			assert.Equal(t, tt.wantValue, a.Value)
			assert.Equal(t, tt.wantLimit, a.Threshold)
			assert.Equal(t, fixedNow.UnixMilli(), a.Timestamp)
			assert.False(t, a.Acknowledged)
			assert.NotContains(t, a.Message, "{{")
		})
	}
}

func TestDetectMessageRendersMetric(t *testing.T) {
	alerts := newTestDetector().Detect([]model.Metric{changeMetric("Revenue", -25)}, model.ScenarioNormal, nil)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Revenue fell 25.00%, a severe decline that needs immediate attention", alerts[0].Message)
}

func TestDetectAcceptsIdentifierAsName(t *testing.T) {
	alerts := newTestDetector().Detect([]model.Metric{changeMetric("revenue", -25)}, model.ScenarioNormal, nil)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Revenue", alerts[0].Metric)
}

func TestDetectCooldown(t *testing.T) {
	nowMs := fixedNow.UnixMilli()
	metricList := []model.Metric{changeMetric("Revenue", -25)}

	tests := []struct {
		name     string
		existing model.Alert
		wantNew  bool
	}{
		{
			name:     "recent alert suppresses",
			existing: model.Alert{ID: "old", Level: model.AlertCritical, Metric: "Revenue", Timestamp: nowMs - 100000},
		},
		{
			name:     "recent alert of another level suppresses",
			existing: model.Alert{ID: "old", Level: model.AlertInfo, Metric: "Revenue", Timestamp: nowMs - 100000},
		},
		{
			name:     "identifier key suppresses display name",
			existing: model.Alert{ID: "old", Level: model.AlertWarning, Metric: "revenue", Timestamp: nowMs - 100000},
		},
		{
			name:     "acknowledged alert still suppresses",
			existing: model.Alert{ID: "old", Level: model.AlertCritical, Metric: "Revenue", Timestamp: nowMs - 100000, Acknowledged: true},
		},
		{
			name:     "expired alert does not suppress",
			existing: model.Alert{ID: "old", Level: model.AlertCritical, Metric: "Revenue", Timestamp: nowMs - 400000},
			wantNew:  true,
		},
		{
			name:     "other metric does not suppress",
			existing: model.Alert{ID: "old", Level: model.AlertCritical, Metric: "Orders", Timestamp: nowMs - 100000},
			wantNew:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := newTestDetector().Detect(metricList, model.ScenarioNormal, []model.Alert{tt.existing})
			if tt.wantNew {
				assert.Len(t, alerts, 1)
			} else {
				assert.Empty(t, alerts)
			}
		})
	}
}

func TestDetectCustomCooldown(t *testing.T) {
	d := NewDetector(time.Minute, WithDetectorClock(fixedClock))
	assert.Equal(t, time.Minute, d.Cooldown())

	existing := []model.Alert{{Metric: "Revenue", Timestamp: fixedNow.Add(-90 * time.Second).UnixMilli()}}
	alerts := d.Detect([]model.Metric{changeMetric("Revenue", -25)}, model.ScenarioNormal, existing)
	assert.Len(t, alerts, 1)

	assert.Equal(t, DefaultAlertCooldown, NewDetector(0).Cooldown())
}

func TestDetectAnomalySpecialEvent(t *testing.T) {
	d := newTestDetector()

	alerts := d.Detect([]model.Metric{changeMetric("Revenue", -25)}, model.ScenarioAnomaly, nil)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Revenue", alerts[0].Metric)
	assert.Equal(t, model.SpecialEventMetric, alerts[1].Metric)
	assert.Equal(t, model.AlertCritical, alerts[1].Level)
	assert.Equal(t, "Special event detected, handle it immediately!", alerts[1].Message)

	// 특별 이벤트는 쿨다운과 무관하게 매번 추가, Revenue는 억제
	again := d.Detect([]model.Metric{changeMetric("Revenue", -25)}, model.ScenarioAnomaly, alerts)
	require.Len(t, again, 1)
	assert.Equal(t, model.SpecialEventMetric, again[0].Metric)
	assert.NotEqual(t, alerts[1].ID, again[0].ID)

	none := d.Detect(nil, model.ScenarioPromotion, nil)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestDetectMultipleMetrics(t *testing.T) {
	metricList := []model.Metric{
		changeMetric("Revenue", -12),
		{Name: "Gross Margin", Value: 18, Unit: "%"},
		changeMetric("Orders", 60),
		changeMetric("Active Users", 1),
	}

	alerts := newTestDetector().Detect(metricList, model.ScenarioNormal, nil)
	require.Len(t, alerts, 3)
	assert.Equal(t, model.AlertWarning, alerts[0].Level)
	assert.Equal(t, model.AlertCritical, alerts[1].Level)
	assert.Equal(t, model.AlertInfo, alerts[2].Level)

	ids := map[string]bool{}
	for _, a := range alerts {
		ids[a.ID] = true
	}
	assert.Len(t, ids, 3)
}
