// 대시보드 지표(Metric) 및 트렌드 포인트 구조체 정의
// generator, detector, handler 레이어에서 공통으로 사용하기 때문에 model 레이어에 별도로 정의
//
// 지표 식별:
//   - 내부에서는 MetricID(닫힌 enum)로 조회
//   - JSON 직렬화 경계에서만 DisplayName(사람이 읽는 이름)으로 변환

package model

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MetricID - 지표 식별자
type MetricID string

const (
	MetricRevenue        MetricID = "revenue"
	MetricOrders         MetricID = "orders"
	MetricActiveUsers    MetricID = "activeUsers"
	MetricConversionRate MetricID = "conversionRate"
	MetricAvgOrderValue  MetricID = "avgOrderValue"
	MetricGrossMargin    MetricID = "grossMargin"
	MetricRepurchaseRate MetricID = "repurchaseRate"
)

var metricDisplayNames = map[MetricID]string{
	MetricRevenue:        "Revenue",
	MetricOrders:         "Orders",
	MetricActiveUsers:    "Active Users",
	MetricConversionRate: "Conversion Rate",
	MetricAvgOrderValue:  "Average Order Value",
	MetricGrossMargin:    "Gross Margin",
	MetricRepurchaseRate: "Repurchase Rate",
}

// AllMetricIDs returns every known metric identifier in display order.
func AllMetricIDs() []MetricID {
	return []MetricID{
		MetricRevenue,
		MetricOrders,
		MetricActiveUsers,
		MetricConversionRate,
		MetricAvgOrderValue,
		MetricGrossMargin,
		MetricRepurchaseRate,
	}
}

func (id MetricID) Valid() bool {
	_, ok := metricDisplayNames[id]
	return ok
}

// DisplayName - 직렬화 시 사용하는 이름 (알 수 없는 ID는 그대로 반환)
func (id MetricID) DisplayName() string {
	if name, ok := metricDisplayNames[id]; ok {
		return name
	}
	return string(id)
}

// MetricIDFromName accepts either a display name or an identifier, case-insensitive.
func MetricIDFromName(name string) (MetricID, bool) {
	trimmed := strings.TrimSpace(name)
	for id, display := range metricDisplayNames {
		if strings.EqualFold(display, trimmed) || strings.EqualFold(string(id), trimmed) {
			return id, true
		}
	}
	return "", false
}

// Trend - 지표 변화 방향
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// StableBandPercent: |changePercent|가 이 값 미만이면 stable
const StableBandPercent = 2.0

// Metric - 단일 지표
type Metric struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	PreviousValue float64 `json:"previousValue"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Unit          string  `json:"unit"`
	Trend         Trend   `json:"trend"`
}

// ID resolves the metric's identifier from its display name.
func (m Metric) ID() (MetricID, bool) {
	return MetricIDFromName(m.Name)
}

// NewMetric derives change, changePercent and trend from value and previous.
// A previous value that rounds to zero yields changePercent 0 so the result stays finite.
func NewMetric(name, unit string, value, previous float64) Metric {
	places := UnitPlaces(unit)
	value = Round(value, places)
	previous = Round(previous, places)
	change := Round(value-previous, places)
	var changePercent float64
	if previous != 0 {
		changePercent = Round(change/previous*100, 2)
	}

	return Metric{
		Name:          name,
		Value:         value,
		PreviousValue: previous,
		Change:        change,
		ChangePercent: changePercent,
		Unit:          unit,
		Trend:         TrendFor(changePercent),
	}
}

func TrendFor(changePercent float64) Trend {
	switch {
	case math.Abs(changePercent) < StableBandPercent:
		return TrendStable
	case changePercent > 0:
		return TrendUp
	default:
		return TrendDown
	}
}

// UnitPlaces - 단위 클래스별 반올림 자릿수
//   - 퍼센트/비율: 소수점 2자리
//   - 금액/건수: 정수
func UnitPlaces(unit string) int32 {
	if strings.TrimSpace(unit) == "%" {
		return 2
	}
	return 0
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// TrendPoint - 트렌드 데이터 포인트 (timestamp: epoch ms)
type TrendPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}
