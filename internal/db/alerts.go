package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/bi-data-explainer/backend/internal/model"
)

var ErrAlertNotFound = errors.New("alert not found")

// AlertListLimit - 조회 시 반환하는 최대 알림 수
const AlertListLimit = 500

// EnsureAlertSchema - alerts 테이블 생성
func (db *Postgres) EnsureAlertSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS alerts (
			alert_id TEXT PRIMARY KEY,
			level TEXT NOT NULL DEFAULT 'info',
			metric TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			value DOUBLE PRECISION NOT NULL DEFAULT 0,
			threshold DOUBLE PRECISION NOT NULL DEFAULT 0,
			emitted_at BIGINT NOT NULL,
			acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS alerts_metric_emitted_at_idx ON alerts(metric, emitted_at DESC)`,
		`CREATE INDEX IF NOT EXISTS alerts_emitted_at_idx ON alerts(emitted_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// SaveAlerts - detector가 생성한 알림 저장 (같은 ID는 갱신)
func (db *Postgres) SaveAlerts(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	query := `
		INSERT INTO alerts (
			alert_id, level, metric, message, value, threshold, emitted_at, acknowledged,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (alert_id) DO UPDATE SET
			level = EXCLUDED.level,
			message = EXCLUDED.message,
			value = EXCLUDED.value,
			threshold = EXCLUDED.threshold,
			acknowledged = EXCLUDED.acknowledged,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, a := range alerts {
		batch.Queue(query, a.ID, string(a.Level), a.Metric, a.Message, a.Value, a.Threshold, a.Timestamp, a.Acknowledged)
	}
	return db.Pool.SendBatch(ctx, batch).Close()
}

// ListAlerts - 최근 알림 목록 조회 (최신순)
func (db *Postgres) ListAlerts(ctx context.Context) ([]model.Alert, error) {
	query := `
		SELECT alert_id, level, metric, message, value, threshold, emitted_at, acknowledged
		FROM alerts
		ORDER BY emitted_at DESC
		LIMIT $1`

	rows, err := db.Pool.Query(ctx, query, AlertListLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Alert{}
	for rows.Next() {
		var a model.Alert
		var level string
		if err := rows.Scan(&a.ID, &level, &a.Metric, &a.Message, &a.Value, &a.Threshold, &a.Timestamp, &a.Acknowledged); err != nil {
			return nil, err
		}
		a.Level = model.AlertLevel(level)
		list = append(list, a)
	}
	return list, rows.Err()
}

// AcknowledgeAlert - acknowledged 플래그 설정
func (db *Postgres) AcknowledgeAlert(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE alerts SET acknowledged = TRUE, updated_at = NOW() WHERE alert_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// AcknowledgeAllAlerts - 미확인 알림 전체 확인 처리
func (db *Postgres) AcknowledgeAllAlerts(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE alerts SET acknowledged = TRUE, updated_at = NOW() WHERE acknowledged = FALSE`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteAlert - 알림 삭제 (dismiss)
func (db *Postgres) DeleteAlert(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM alerts WHERE alert_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlertNotFound
	}
	return nil
}
