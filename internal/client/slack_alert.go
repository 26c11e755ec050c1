// Slack Alert 메시지 관련 메서드 정의

package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bi-data-explainer/backend/internal/model"
)

var ErrSlackNotConfigured = errors.New("slack bot token or channel ID not configured")

// 알림을 Slack으로 전송
//
// 같은 지표의 첫 알림은 새 메시지, 이후 알림은 해당 메시지의 쓰레드 답글로 전송
func (c *SlackClient) SendAlert(ctx context.Context, alert model.Alert) error {
	if !c.IsConfigured() {
		return ErrSlackNotConfigured
	}

	// 1. 메시지 포맷팅
	title := fmt.Sprintf("%s [%s] %s", levelEmoji(alert.Level), alert.Level, alert.Metric)

	fields := []SlackField{
		{Title: "Level", Value: string(alert.Level), Short: true},
		{Title: "Metric", Value: alert.Metric, Short: true},
	}
	if alert.Metric != model.SpecialEventMetric {
		fields = append(fields,
			SlackField{Title: "Value", Value: formatNumber(alert.Value), Short: true},
			SlackField{Title: "Threshold", Value: formatNumber(alert.Threshold), Short: true},
		)
	}
	emitted := time.UnixMilli(alert.Timestamp).UTC()
	fields = append(fields, SlackField{Title: "Emitted", Value: emitted.Format(time.RFC3339), Short: true})

	msg := SlackMessage{
		Channel: c.channelID,
		Text:    alert.Message,
		Attachments: []SlackAttachment{
			{
				Color:  levelColor(alert.Level),
				Title:  title,
				Text:   alert.Message,
				Fields: fields,
				Footer: "bi-data-explainer",
				Ts:     emitted.Unix(),
			},
		},
	}

	// 2. 같은 지표의 기존 쓰레드가 있으면 답글로 전송
	key := threadKey(alert.Metric)
	if ts, ok := c.threadTS(key); ok {
		msg.ThreadTS = ts
	}

	// 3. Slack API 호출
	resp, err := c.send(ctx, msg)
	if err != nil {
		return err
	}

	// 4. 새 쓰레드의 thread_ts 저장
	if msg.ThreadTS == "" && resp.TS != "" {
		c.storeThreadTS(key, resp.TS)
	}
	return nil
}

func threadKey(metric string) string {
	if id, ok := model.MetricIDFromName(metric); ok {
		return string(id)
	}
	return strings.ToLower(strings.TrimSpace(metric))
}

// Level에 따른 메시지 색상 반환
func levelColor(level model.AlertLevel) string {
	switch level {
	case model.AlertCritical:
		return "#dc3545" // red
	case model.AlertWarning:
		return "#ffc107" // yellow
	default:
		return "#17a2b8" // blue
	}
}

func levelEmoji(level model.AlertLevel) string {
	switch level {
	case model.AlertCritical:
		return "🔥"
	case model.AlertWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
