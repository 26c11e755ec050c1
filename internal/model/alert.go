// 이상 탐지 알림(Alert) 구조체 정의
//
// 생명주기:
//   - detector가 임계값을 넘는 지표에 대해 생성
//   - 소비자(UI)가 acknowledged 플래그를 변경하거나 삭제
//   - 같은 지표에 대해 쿨다운(기본 300초) 내에는 다시 생성하지 않음

package model

import "sort"

// AlertLevel - 알림 심각도
type AlertLevel string

const (
	AlertInfo     AlertLevel = "info"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

// Rank orders severities: critical > warning > info.
func (l AlertLevel) Rank() int {
	switch l {
	case AlertCritical:
		return 3
	case AlertWarning:
		return 2
	case AlertInfo:
		return 1
	default:
		return 0
	}
}

func (l AlertLevel) Valid() bool {
	return l.Rank() > 0
}

// SpecialEventMetric: anomaly 시나리오에서 발생하는 특수 이벤트 알림의 metric 이름
const SpecialEventMetric = "Special Event"

// Alert - 개별 알림 (timestamp: epoch ms)
type Alert struct {
	ID           string     `json:"id"`
	Level        AlertLevel `json:"level"`
	Metric       string     `json:"metric"`
	Message      string     `json:"message"`
	Value        float64    `json:"value"`
	Threshold    float64    `json:"threshold"`
	Timestamp    int64      `json:"timestamp"`
	Acknowledged bool       `json:"acknowledged"`
}

// AlertTaskRef - 알림으로부터 후속 작업을 만드는 외부 협력자에게 전달하는 최소 정보
type AlertTaskRef struct {
	Metric  string     `json:"metric"`
	Message string     `json:"message"`
	Level   AlertLevel `json:"level"`
}

func (a Alert) TaskRef() AlertTaskRef {
	return AlertTaskRef{Metric: a.Metric, Message: a.Message, Level: a.Level}
}

// SortAlerts orders alerts by severity, then newest first.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Level.Rank() != alerts[j].Level.Rank() {
			return alerts[i].Level.Rank() > alerts[j].Level.Rank()
		}
		return alerts[i].Timestamp > alerts[j].Timestamp
	})
}

// AlertEvaluateRequest - 보관 중인 알림 이력에 대해 detector 실행 요청
type AlertEvaluateRequest struct {
	Scenario ScenarioKey `json:"scenario"`
	Metrics  []Metric    `json:"metrics"`
}

type AlertListResponse struct {
	Success bool    `json:"success"`
	Alerts  []Alert `json:"alerts"`
}

type AlertEvaluateResponse struct {
	Success bool    `json:"success"`
	Alerts  []Alert `json:"alerts"`
}

type AlertAckResponse struct {
	Success  bool   `json:"success"`
	ID       string `json:"id,omitempty"`
	Affected int64  `json:"affected"`
}

type AlertTaskListResponse struct {
	Success bool           `json:"success"`
	Tasks   []AlertTaskRef `json:"tasks"`
}
