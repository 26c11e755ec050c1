// Alert 처리 비즈니스 로직 정의
// 대시보드가 받은 스냅샷 지표를 서버 측 알림 이력과 대조하여 새 알림을 만들고 보관
//
// 처리 흐름 (Evaluate):
//  1. 저장소에서 보관 중인 알림 이력 조회
//  2. Detector로 지표 검사 (이력 기준 쿨다운 적용)
//  3. 새 알림 저장
//  4. websocket hub로 실시간 전파
//
// 알림은 생성 후 acknowledged 변경 또는 삭제만 가능하며 자동 해제되지 않음

package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bi-data-explainer/backend/internal/model"
)

// AlertRepository - 알림 이력 저장소 (db.Postgres / db.MemoryStore)
type AlertRepository interface {
	SaveAlerts(ctx context.Context, alerts []model.Alert) error
	ListAlerts(ctx context.Context) ([]model.Alert, error)
	AcknowledgeAlert(ctx context.Context, id string) error
	AcknowledgeAllAlerts(ctx context.Context) (int64, error)
	DeleteAlert(ctx context.Context, id string) error
}

// AlertBroadcaster - 새 알림 실시간 전파 (websocket.Hub)
type AlertBroadcaster interface {
	BroadcastAlerts(alerts []model.Alert)
}

// AlertService 구조체 정의
type AlertService struct {
	repo        AlertRepository
	detector    *Detector
	broadcaster AlertBroadcaster
	logger      *zap.Logger
}

// AlertService 객체 생성
func NewAlertService(repo AlertRepository, detector *Detector, broadcaster AlertBroadcaster, logger *zap.Logger) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{
		repo:        repo,
		detector:    detector,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Evaluate runs the detector against the retained history and stores the new alerts.
func (s *AlertService) Evaluate(ctx context.Context, req model.AlertEvaluateRequest) ([]model.Alert, error) {
	if req.Scenario != "" && !req.Scenario.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidScenario, req.Scenario)
	}

	existing, err := s.repo.ListAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert history: %w", err)
	}

	alerts := s.detector.Detect(req.Metrics, req.Scenario, existing)
	if len(alerts) == 0 {
		return alerts, nil
	}

	if err := s.repo.SaveAlerts(ctx, alerts); err != nil {
		return nil, fmt.Errorf("failed to save alerts: %w", err)
	}

	s.logger.Info("alerts emitted",
		zap.String("scenario", string(req.Scenario)),
		zap.Int("count", len(alerts)),
	)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAlerts(alerts)
	}
	return alerts, nil
}

// List returns retained alerts ordered by severity, then newest first.
func (s *AlertService) List(ctx context.Context) ([]model.Alert, error) {
	alerts, err := s.repo.ListAlerts(ctx)
	if err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}
	model.SortAlerts(alerts)
	return alerts, nil
}

func (s *AlertService) Acknowledge(ctx context.Context, id string) error {
	return s.repo.AcknowledgeAlert(ctx, strings.TrimSpace(id))
}

func (s *AlertService) AcknowledgeAll(ctx context.Context) (int64, error) {
	return s.repo.AcknowledgeAllAlerts(ctx)
}

func (s *AlertService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteAlert(ctx, strings.TrimSpace(id))
}

// TaskRefs returns the minimal records handed to the follow-up task collaborator for every
// unacknowledged alert.
func (s *AlertService) TaskRefs(ctx context.Context) ([]model.AlertTaskRef, error) {
	alerts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]model.AlertTaskRef, 0, len(alerts))
	for _, a := range alerts {
		if !a.Acknowledged {
			refs = append(refs, a.TaskRef())
		}
	}
	return refs, nil
}
