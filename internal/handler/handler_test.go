package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bi-data-explainer/backend/internal/client"
	"github.com/bi-data-explainer/backend/internal/config"
	"github.com/bi-data-explainer/backend/internal/db"
	"github.com/bi-data-explainer/backend/internal/model"
	"github.com/bi-data-explainer/backend/internal/scenario"
	"github.com/bi-data-explainer/backend/internal/service"
	ws "github.com/bi-data-explainer/backend/internal/websocket"
)

// keyRecorder fails every completion and remembers the key it was given.
type keyRecorder struct {
	mu   sync.Mutex
	keys []string
}

func (k *keyRecorder) Complete(_ context.Context, apiKey string, _ client.CompletionRequest) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys = append(k.keys, apiKey)
	return "", errors.New("model unavailable")
}

func (k *keyRecorder) last() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.keys) == 0 {
		return ""
	}
	return k.keys[len(k.keys)-1]
}

type testServer struct {
	router    *gin.Engine
	store     *db.MemoryStore
	completer *keyRecorder
}

func newTestServer(t *testing.T, serverKey string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	cfg := scenario.Default()
	completer := &keyRecorder{}
	detector := service.NewDetector(service.DefaultAlertCooldown)
	aiCfg := config.AIConfig{Timeout: time.Second}

	dataSvc := service.NewDataService(cfg,
		service.NewGenerator(cfg),
		service.NewAIGenerator(cfg, completer, detector, logger),
		aiCfg, logger)

	store := db.NewMemoryStore()
	hub := ws.NewHub(logger)
	alertSvc := service.NewAlertService(store, detector, hub, logger)

	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://dashboard.local"}, false), MetricsMiddleware(), RequestLogger(logger))
	RegisterRoutes(r, Handlers{
		Health: NewHealthHandler(gin.ReleaseMode),
		Data:   NewDataHandler(dataSvc, serverKey),
		Alert:  NewAlertHandler(alertSvc),
		Stream: NewStreamHandler(hub, []string{"http://dashboard.local"}, logger),
	})

	return &testServer{router: r, store: store, completer: completer}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestGenerateHandler(t *testing.T) {
	srv := newTestServer(t, "")

	w := srv.do(t, http.MethodPost, "/api/data/generate", `{
		"scenario": "promotion",
		"useAI": false,
		"previousData": {"metrics": [{"name": "Revenue", "value": 5000000}]}
	}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[model.GenerateResponse](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, model.SourceEnhanced, resp.Source)
	require.NotNil(t, resp.Data)
	assert.Len(t, resp.Data.Metrics, 7)
	assert.Len(t, resp.Data.Trend, 12)

	revenue, ok := resp.Data.Metric(model.MetricRevenue)
	require.True(t, ok)
	assert.Equal(t, 5000000.0, revenue.PreviousValue)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Contains(t, raw, "data")
	assert.Contains(t, raw, "source")
	assert.NotContains(t, raw, "error")
}

func TestGenerateHandlerRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t, "")

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"scenario":`},
		{name: "unknown scenario", body: `{"scenario": "holiday"}`},
		{name: "missing scenario", body: `{}`},
		{name: "custom without description", body: `{"scenario": "custom"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/api/data/generate", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			resp := decode[model.ErrorResponse](t, w)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestGenerateHandlerAPIKeyResolution(t *testing.T) {
	tests := []struct {
		name      string
		serverKey string
		headers   map[string]string
		wantKey   string
	}{
		{name: "request header wins", serverKey: "server", headers: map[string]string{"X-AI-API-Key": "client"}, wantKey: "client"},
		{name: "legacy header", headers: map[string]string{"X-Modelscope-Api-Key": "legacy"}, wantKey: "legacy"},
		{name: "server key fallback", serverKey: "server", wantKey: "server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.serverKey)

			w := srv.do(t, http.MethodPost, "/api/data/generate", `{"scenario": "normal"}`, tt.headers)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantKey, srv.completer.last())

			// 원격 실패는 응답에 드러나지 않음
			resp := decode[model.GenerateResponse](t, w)
			assert.True(t, resp.Success)
			assert.Equal(t, model.SourceEnhanced, resp.Source)
		})
	}

	t.Run("no key skips the model", func(t *testing.T) {
		srv := newTestServer(t, "")
		w := srv.do(t, http.MethodPost, "/api/data/generate", `{"scenario": "normal"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, srv.completer.last())
	})
}

func TestScenariosHandler(t *testing.T) {
	srv := newTestServer(t, "")

	w := srv.do(t, http.MethodGet, "/api/data/scenarios", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[model.ScenarioListResponse](t, w)
	assert.True(t, resp.Success)
	require.Len(t, resp.Scenarios, 5)
	assert.Equal(t, model.ScenarioNormal, resp.Scenarios[0].Value)
	assert.Equal(t, model.ScenarioCustom, resp.Scenarios[4].Value)
}

func TestAlertHandlers(t *testing.T) {
	srv := newTestServer(t, "")

	w := srv.do(t, http.MethodPost, "/api/alerts/evaluate", `{
		"scenario": "normal",
		"metrics": [
			{"name": "Revenue", "value": 3800000, "previousValue": 5000000, "changePercent": -24},
			{"name": "Gross Margin", "value": 25, "unit": "%"}
		]
	}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	evaluated := decode[model.AlertEvaluateResponse](t, w)
	require.Len(t, evaluated.Alerts, 2)

	// 쿨다운 내 재평가
	w = srv.do(t, http.MethodPost, "/api/alerts/evaluate", `{"metrics": [{"name": "Revenue", "changePercent": -30}]}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[model.AlertEvaluateResponse](t, w).Alerts)

	w = srv.do(t, http.MethodGet, "/api/alerts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[model.AlertListResponse](t, w)
	require.Len(t, listed.Alerts, 2)
	assert.Equal(t, model.AlertCritical, listed.Alerts[0].Level)
	assert.Equal(t, model.AlertWarning, listed.Alerts[1].Level)

	w = srv.do(t, http.MethodGet, "/api/alerts/tasks", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[model.AlertTaskListResponse](t, w).Tasks, 2)

	id := listed.Alerts[0].ID
	w = srv.do(t, http.MethodPost, "/api/alerts/"+id+"/ack", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ack := decode[model.AlertAckResponse](t, w)
	assert.Equal(t, id, ack.ID)
	assert.EqualValues(t, 1, ack.Affected)

	w = srv.do(t, http.MethodPost, "/api/alerts/ack-all", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[model.AlertAckResponse](t, w).Affected)

	w = srv.do(t, http.MethodDelete, "/api/alerts/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	remaining, err := srv.store.ListAlerts(context.Background())
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestAlertHandlersErrors(t *testing.T) {
	srv := newTestServer(t, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "ack unknown", method: http.MethodPost, path: "/api/alerts/missing/ack", want: http.StatusNotFound},
		{name: "delete unknown", method: http.MethodDelete, path: "/api/alerts/missing", want: http.StatusNotFound},
		{name: "evaluate malformed", method: http.MethodPost, path: "/api/alerts/evaluate", body: `[`, want: http.StatusBadRequest},
		{name: "evaluate unknown scenario", method: http.MethodPost, path: "/api/alerts/evaluate", body: `{"scenario": "holiday"}`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.want, w.Code)
			assert.False(t, decode[model.ErrorResponse](t, w).Success)
		})
	}
}

func TestHealthHandlers(t *testing.T) {
	srv := newTestServer(t, "")

	w := srv.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[model.HealthResponse](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "bi-data-explainer", health.Service)
	assert.Equal(t, "production", health.Mode)
	_, err := time.Parse(time.RFC3339Nano, health.Timestamp)
	assert.NoError(t, err)

	assert.Equal(t, "development", NewHealthHandler(gin.DebugMode).mode)

	w = srv.do(t, http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode[model.PingResponse](t, w).Message)

	w = srv.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[model.RootResponse](t, w).Status)
}

func TestCORSMiddleware(t *testing.T) {
	srv := newTestServer(t, "")

	w := srv.do(t, http.MethodGet, "/ping", "", map[string]string{"Origin": "http://dashboard.local"})
	assert.Equal(t, "http://dashboard.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-AI-API-Key")

	w = srv.do(t, http.MethodGet, "/ping", "", map[string]string{"Origin": "http://evil.local"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = srv.do(t, http.MethodOptions, "/api/data/generate", "", map[string]string{"Origin": "http://dashboard.local"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	wildcard := newOriginMatcher([]string{" * "})
	assert.True(t, wildcard.allowed("http://anything"))
}

func TestOpenAPIDoc(t *testing.T) {
	srv := newTestServer(t, "")

	w := srv.do(t, http.MethodGet, "/openapi.json", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		Swagger string                     `json:"swagger"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths, "/api/data/generate")
	assert.Contains(t, doc.Paths, "/api/alerts/{id}/ack")
}

func TestStreamRejectsPlainRequest(t *testing.T) {
	srv := newTestServer(t, "")

	w := srv.do(t, http.MethodGet, "/api/alerts/stream", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
