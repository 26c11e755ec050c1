package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bi-data-explainer/backend/internal/metrics"
	"github.com/bi-data-explainer/backend/internal/model"
)

// AlertSender - 외부 채널로 알림 1건 전송 (client.SlackClient)
type AlertSender interface {
	SendAlert(ctx context.Context, alert model.Alert) error
}

// SlackNotifier forwards alerts at or above minLevel to an AlertSender.
// Sends run in the background so a slow Slack API never blocks evaluation.
type SlackNotifier struct {
	sender   AlertSender
	minLevel model.AlertLevel
	timeout  time.Duration
	logger   *zap.Logger

	wg sync.WaitGroup
}

func NewSlackNotifier(sender AlertSender, minLevel model.AlertLevel, timeout time.Duration, logger *zap.Logger) *SlackNotifier {
	if !minLevel.Valid() {
		minLevel = model.AlertCritical
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SlackNotifier{
		sender:   sender,
		minLevel: minLevel,
		timeout:  timeout,
		logger:   logger,
	}
}

// BroadcastAlerts implements AlertBroadcaster.
func (n *SlackNotifier) BroadcastAlerts(alerts []model.Alert) {
	var pending []model.Alert
	for _, a := range alerts {
		if a.Level.Rank() >= n.minLevel.Rank() {
			pending = append(pending, a)
		}
	}
	if len(pending) == 0 {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for _, a := range pending {
			n.send(a)
		}
	}()
}

func (n *SlackNotifier) send(alert model.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	if err := n.sender.SendAlert(ctx, alert); err != nil {
		metrics.AlertNotificationsTotal.WithLabelValues("failed").Inc()
		n.logger.Warn("failed to send alert to slack",
			zap.String("alert_id", alert.ID),
			zap.String("metric", alert.Metric),
			zap.Error(err),
		)
		return
	}
	metrics.AlertNotificationsTotal.WithLabelValues("sent").Inc()
	n.logger.Debug("alert sent to slack", zap.String("alert_id", alert.ID), zap.String("metric", alert.Metric))
}

// Wait blocks until in-flight sends finish. Used on shutdown.
func (n *SlackNotifier) Wait() {
	n.wg.Wait()
}

// Broadcasters fans new alerts out to every target in order.
type Broadcasters []AlertBroadcaster

func (b Broadcasters) BroadcastAlerts(alerts []model.Alert) {
	for _, target := range b {
		if target != nil {
			target.BroadcastAlerts(alerts)
		}
	}
}
