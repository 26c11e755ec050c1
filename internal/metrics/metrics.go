// Prometheus 자체 모니터링 지표 정의 (/metrics)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 요청
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bi_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 스냅샷 생성 (source: ai / enhanced)
	GenerationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_generation_total",
			Help: "Total number of snapshots served, by generator",
		},
		[]string{"source"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bi_generation_duration_seconds",
			Help:    "Snapshot generation duration in seconds, by generator",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"},
	)

	// 원격 생성 실패 (reason: timeout / canceled / remote / unknown)
	AIFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_ai_failures_total",
			Help: "Total number of remote generation failures that fell back to the rule-based generator",
		},
		[]string{"reason"},
	)

	AlertsEmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_alerts_emitted_total",
			Help: "Total number of alerts emitted by the detector",
		},
		[]string{"level"},
	)

	// Slack 전송 결과 (result: sent / failed)
	AlertNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bi_alert_notifications_total",
			Help: "Total number of alert notifications pushed to Slack",
		},
		[]string{"result"},
	)

	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bi_websocket_clients",
			Help: "Number of connected live alert feed clients",
		},
	)
)
