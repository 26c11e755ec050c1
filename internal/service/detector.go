package service

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bi-data-explainer/backend/internal/metrics"
	"github.com/bi-data-explainer/backend/internal/model"
	"github.com/bi-data-explainer/backend/internal/template"
)

// DefaultAlertCooldown - 같은 지표에 대한 재알림 억제 시간
const DefaultAlertCooldown = 300 * time.Second

const specialEventMessage = "Special event detected, handle it immediately!"

type ruleField int

const (
	fieldChangePercent ruleField = iota
	fieldValue
)

// alertRule - 지표별 고정 임계값 규칙 (threshold: 알림에 기록할 경계값)
type alertRule struct {
	metric    model.MetricID
	level     model.AlertLevel
	field     ruleField
	threshold float64
	match     func(v float64) bool
	message   string
}

func (r alertRule) matches(m model.Metric) (float64, bool) {
	v := m.ChangePercent
	if r.field == fieldValue {
		v = m.Value
	}
	return v, r.match(v)
}

var alertRules = []alertRule{
	{
		metric: model.MetricRevenue, level: model.AlertCritical, field: fieldChangePercent, threshold: -20,
		match:   func(v float64) bool { return v < -20 },
		message: "{{metric.name}} fell {{metric.change_abs}}%, a severe decline that needs immediate attention",
	},
	{
		metric: model.MetricRevenue, level: model.AlertWarning, field: fieldChangePercent, threshold: -10,
		match:   func(v float64) bool { return v >= -20 && v < -10 },
		message: "{{metric.name}} fell {{metric.change_abs}}%, keep a close watch on the trend",
	},
	{
		metric: model.MetricRevenue, level: model.AlertInfo, field: fieldChangePercent, threshold: 30,
		match:   func(v float64) bool { return v > 30 },
		message: "{{metric.name}} grew {{metric.change_abs}}%, the business is performing well",
	},
	{
		metric: model.MetricGrossMargin, level: model.AlertCritical, field: fieldValue, threshold: 20,
		match:   func(v float64) bool { return v < 20 },
		message: "{{metric.name}} is only {{metric.value}}%, take action on costs immediately",
	},
	{
		metric: model.MetricGrossMargin, level: model.AlertWarning, field: fieldValue, threshold: 30,
		match:   func(v float64) bool { return v >= 20 && v < 30 },
		message: "{{metric.name}} is below 30% at {{metric.value}}%, watch cost control",
	},
	{
		metric: model.MetricConversionRate, level: model.AlertWarning, field: fieldChangePercent, threshold: -15,
		match:   func(v float64) bool { return v < -15 },
		message: "{{metric.name}} dropped {{metric.change_abs}}%, review the marketing funnel",
	},
	{
		metric: model.MetricActiveUsers, level: model.AlertCritical, field: fieldChangePercent, threshold: -25,
		match:   func(v float64) bool { return v < -25 },
		message: "{{metric.name}} dropped {{metric.change_abs}}%, investigate user churn immediately",
	},
	{
		metric: model.MetricOrders, level: model.AlertInfo, field: fieldChangePercent, threshold: 50,
		match:   func(v float64) bool { return v > 50 },
		message: "{{metric.name}} surged {{metric.change_abs}}%, consider scaling fulfilment capacity",
	},
	{
		metric: model.MetricOrders, level: model.AlertCritical, field: fieldChangePercent, threshold: -30,
		match:   func(v float64) bool { return v < -30 },
		message: "{{metric.name}} dropped {{metric.change_abs}}%, check the ordering path for failures",
	},
}

// Detector - 지표 임계값 기반 알림 생성기
//
// 상태를 갖지 않으며, 쿨다운 판단은 호출자가 넘겨준 기존 알림 목록으로만 수행
type Detector struct {
	cooldown time.Duration
	now      func() time.Time
	newID    func() string
}

type DetectorOption func(*Detector)

func WithDetectorClock(now func() time.Time) DetectorOption {
	return func(d *Detector) { d.now = now }
}

func WithDetectorIDs(newID func() string) DetectorOption {
	return func(d *Detector) { d.newID = newID }
}

func NewDetector(cooldown time.Duration, opts ...DetectorOption) *Detector {
	if cooldown <= 0 {
		cooldown = DefaultAlertCooldown
	}
	d := &Detector{
		cooldown: cooldown,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Detector) Cooldown() time.Duration {
	return d.cooldown
}

// Detect evaluates the rule table over metrics and returns the new alerts. An alert is
// suppressed when existing (or an alert emitted earlier in the same pass) holds one for the
// same metric younger than the cooldown, whatever its level. The anomaly Special Event is
// appended on every anomaly pass regardless of the cooldown.
func (d *Detector) Detect(metricList []model.Metric, scenario model.ScenarioKey, existing []model.Alert) []model.Alert {
	nowMs := d.now().UnixMilli()
	cooldownMs := d.cooldown.Milliseconds()

	recent := make(map[string]bool)
	for _, a := range existing {
		if nowMs-a.Timestamp < cooldownMs {
			recent[alertKey(a.Metric)] = true
		}
	}

	alerts := make([]model.Alert, 0)
	add := func(metric string, level model.AlertLevel, message string, value, threshold float64) {
		alerts = append(alerts, model.Alert{
			ID:        d.newID(),
			Level:     level,
			Metric:    metric,
			Message:   message,
			Value:     value,
			Threshold: threshold,
			Timestamp: nowMs,
		})
		metrics.AlertsEmittedTotal.WithLabelValues(string(level)).Inc()
	}
	emit := func(metric string, level model.AlertLevel, message string, value, threshold float64) {
		key := alertKey(metric)
		if recent[key] {
			return
		}
		recent[key] = true
		add(metric, level, message, value, threshold)
	}

	for _, m := range metricList {
		id, ok := m.ID()
		if !ok {
			continue
		}
		for _, rule := range alertRules {
			if rule.metric != id {
				continue
			}
			v, hit := rule.matches(m)
			if !hit {
				continue
			}
			msg := template.RenderMetric(rule.message, template.MetricDataFromModel(m))
			emit(id.DisplayName(), rule.level, msg, v, rule.threshold)
		}
	}

	if scenario == model.ScenarioAnomaly {
		add(model.SpecialEventMetric, model.AlertCritical, specialEventMessage, 0, 0)
	}

	return alerts
}

// 표시 이름과 식별자를 같은 키로 취급
func alertKey(metric string) string {
	if id, ok := model.MetricIDFromName(metric); ok {
		return string(id)
	}
	return strings.ToLower(strings.TrimSpace(metric))
}
