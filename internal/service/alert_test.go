package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bi-data-explainer/backend/internal/db"
	"github.com/bi-data-explainer/backend/internal/model"
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	alerts []model.Alert
}

func (b *recordingBroadcaster) BroadcastAlerts(alerts []model.Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append(b.alerts, alerts...)
}

type failingRepo struct {
	*db.MemoryStore
	err error
}

func (r *failingRepo) ListAlerts(context.Context) ([]model.Alert, error) {
	return nil, r.err
}

func newTestAlertService(t *testing.T, now *time.Time) (*AlertService, *db.MemoryStore, *recordingBroadcaster) {
	t.Helper()
	store := db.NewMemoryStore()
	broadcaster := &recordingBroadcaster{}
	detector := NewDetector(DefaultAlertCooldown, WithDetectorClock(func() time.Time { return *now }))
	return NewAlertService(store, detector, broadcaster, zaptest.NewLogger(t)), store, broadcaster
}

func TestAlertServiceEvaluateAppliesCooldownAcrossCalls(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc, store, broadcaster := newTestAlertService(t, &now)

	req := model.AlertEvaluateRequest{
		Scenario: model.ScenarioNormal,
		Metrics:  []model.Metric{changeMetric("Revenue", -25)},
	}

	first, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, model.AlertCritical, first[0].Level)
	assert.Len(t, broadcaster.alerts, 1)

	// 쿨다운 내 재평가는 억제
	now = fixedNow.Add(100 * time.Second)
	second, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Len(t, broadcaster.alerts, 1)

	// 쿨다운 이후 다시 발생
	now = fixedNow.Add(400 * time.Second)
	third, err := svc.Evaluate(ctx, req)
	require.NoError(t, err)
	require.Len(t, third, 1)
	assert.NotEqual(t, first[0].ID, third[0].ID)

	stored, err := store.ListAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.Len(t, broadcaster.alerts, 2)
}

func TestAlertServiceEvaluateRepeatsSpecialEvent(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc, store, _ := newTestAlertService(t, &now)
	req := model.AlertEvaluateRequest{Scenario: model.ScenarioAnomaly}

	for i := 0; i < 2; i++ {
		now = fixedNow.Add(time.Duration(i) * 10 * time.Second)
		alerts, err := svc.Evaluate(ctx, req)
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, model.SpecialEventMetric, alerts[0].Metric)
	}

	stored, err := store.ListAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestAlertServiceEvaluateRejectsUnknownScenario(t *testing.T) {
	now := fixedNow
	svc, _, _ := newTestAlertService(t, &now)

	_, err := svc.Evaluate(context.Background(), model.AlertEvaluateRequest{Scenario: "holiday"})
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestAlertServiceEvaluateHistoryError(t *testing.T) {
	repoErr := errors.New("connection refused")
	repo := &failingRepo{MemoryStore: db.NewMemoryStore(), err: repoErr}
	svc := NewAlertService(repo, NewDetector(0), nil, zaptest.NewLogger(t))

	_, err := svc.Evaluate(context.Background(), model.AlertEvaluateRequest{
		Metrics: []model.Metric{changeMetric("Revenue", -25)},
	})
	assert.ErrorIs(t, err, repoErr)
}

func TestAlertServiceListOrdersBySeverity(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc, store, _ := newTestAlertService(t, &now)

	require.NoError(t, store.SaveAlerts(ctx, []model.Alert{
		{ID: "info-new", Level: model.AlertInfo, Metric: "Orders", Timestamp: 300},
		{ID: "critical-old", Level: model.AlertCritical, Metric: "Revenue", Timestamp: 100},
		{ID: "warning", Level: model.AlertWarning, Metric: "Gross Margin", Timestamp: 200},
		{ID: "critical-new", Level: model.AlertCritical, Metric: "Active Users", Timestamp: 250},
	}))

	alerts, err := svc.List(ctx)
	require.NoError(t, err)

	var ids []string
	for _, a := range alerts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"critical-new", "critical-old", "warning", "info-new"}, ids)

	empty, _, _ := newTestAlertService(t, &now)
	list, err := empty.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestAlertServiceAcknowledgeAndDelete(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	svc, store, _ := newTestAlertService(t, &now)

	require.NoError(t, store.SaveAlerts(ctx, []model.Alert{
		{ID: "a", Level: model.AlertCritical, Metric: "Revenue", Message: "down", Timestamp: 1},
		{ID: "b", Level: model.AlertWarning, Metric: "Gross Margin", Message: "thin", Timestamp: 2},
		{ID: "c", Level: model.AlertInfo, Metric: "Orders", Message: "up", Timestamp: 3},
	}))

	require.NoError(t, svc.Acknowledge(ctx, " a "))
	assert.ErrorIs(t, svc.Acknowledge(ctx, "missing"), db.ErrAlertNotFound)

	refs, err := svc.TaskRefs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.AlertTaskRef{
		{Metric: "Gross Margin", Message: "thin", Level: model.AlertWarning},
		{Metric: "Orders", Message: "up", Level: model.AlertInfo},
	}, refs)

	affected, err := svc.AcknowledgeAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	refs, err = svc.TaskRefs(ctx)
	require.NoError(t, err)
	assert.Empty(t, refs)

	require.NoError(t, svc.Delete(ctx, "b"))
	assert.ErrorIs(t, svc.Delete(ctx, "b"), db.ErrAlertNotFound)

	alerts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
	for _, a := range alerts {
		assert.True(t, a.Acknowledged)
	}
}
