// Package template provides narrative and alert message rendering.
//
// 지원하는 변수 형식:
//
//	{{<metricID>.name}}, {{<metricID>.value}}, {{<metricID>.unit}},
//	{{<metricID>.change}}, {{<metricID>.change_abs}}, {{<metricID>.direction}}
//	(예: {{revenue.change_abs}}, {{activeUsers.direction}})
//
//	{{metric.name}}, {{metric.value}}, {{metric.unit}},
//	{{metric.change}}, {{metric.change_abs}}, {{metric.direction}}
package template

import (
	"math"
	"strconv"
	"strings"

	"github.com/bi-data-explainer/backend/internal/model"
)

// MetricData - 템플릿 렌더링에 사용할 Metric 데이터
type MetricData struct {
	Name          string
	Value         float64
	Unit          string
	ChangePercent float64
}

// MetricDataFromModel - model.Metric에서 MetricData 생성
func MetricDataFromModel(m model.Metric) MetricData {
	return MetricData{
		Name:          m.Name,
		Value:         m.Value,
		Unit:          m.Unit,
		ChangePercent: m.ChangePercent,
	}
}

// Direction describes the sign of a percentage change in words.
func Direction(changePercent float64) string {
	switch {
	case changePercent > 0:
		return "grew"
	case changePercent < 0:
		return "fell"
	default:
		return "held at"
	}
}

// RenderNarrative - insight/suggestion 템플릿의 지표 변수를 실제 값으로 치환
//
// metrics에 없는 지표의 변수는 0 기준 값으로 치환됩니다.
func RenderNarrative(body string, metrics []model.Metric) string {
	byID := make(map[model.MetricID]model.Metric, len(metrics))
	for _, m := range metrics {
		if id, ok := m.ID(); ok {
			byID[id] = m
		}
	}

	pairs := make([]string, 0, len(model.AllMetricIDs())*12)
	for _, id := range model.AllMetricIDs() {
		data := MetricData{Name: id.DisplayName()}
		if m, ok := byID[id]; ok {
			data = MetricDataFromModel(m)
		}
		pairs = append(pairs, metricPairs(string(id), data)...)
	}

	return strings.NewReplacer(pairs...).Replace(body)
}

// RenderMetric - 단일 지표 메시지 템플릿({{metric.*}})을 치환
func RenderMetric(body string, data MetricData) string {
	return strings.NewReplacer(metricPairs("metric", data)...).Replace(body)
}

func metricPairs(prefix string, data MetricData) []string {
	return []string{
		"{{" + prefix + ".name}}", data.Name,
		"{{" + prefix + ".value}}", formatValue(data.Value, data.Unit),
		"{{" + prefix + ".unit}}", data.Unit,
		"{{" + prefix + ".change}}", formatPercent(data.ChangePercent),
		"{{" + prefix + ".change_abs}}", formatPercent(math.Abs(data.ChangePercent)),
		"{{" + prefix + ".direction}}", Direction(data.ChangePercent),
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatValue(v float64, unit string) string {
	return strconv.FormatFloat(v, 'f', int(model.UnitPlaces(unit)), 64)
}
