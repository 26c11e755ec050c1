package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/bi-data-explainer/backend/internal/client"
	"github.com/bi-data-explainer/backend/internal/config"
	"github.com/bi-data-explainer/backend/internal/db"
	"github.com/bi-data-explainer/backend/internal/handler"
	"github.com/bi-data-explainer/backend/internal/model"
	"github.com/bi-data-explainer/backend/internal/scenario"
	"github.com/bi-data-explainer/backend/internal/service"
	"github.com/bi-data-explainer/backend/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. 시나리오 설정 (파일이 없거나 잘못되면 내장 테이블 사용)
	scenarios, err := scenario.Load(cfg.Scenario.ConfigPath)
	if err != nil {
		logger.Warn("scenario config unavailable, using built-in tables",
			zap.String("path", cfg.Scenario.ConfigPath),
			zap.Error(err),
		)
		scenarios = scenario.Default()
	}

	// 2. 알림 저장소 (Postgres 미설정 시 in-memory)
	repo, closeRepo := openAlertRepository(ctx, cfg.Postgres, logger)
	defer closeRepo()

	// 3. 실시간 알림 피드
	hub := websocket.NewHub(logger.Named("websocket"))
	go hub.Run(ctx)

	// 4. 서비스 조립
	detector := service.NewDetector(cfg.Alert.Cooldown)
	genaiClient := client.NewGenAIClient(cfg.AI)
	dataService := service.NewDataService(
		scenarios,
		service.NewGenerator(scenarios, service.WithDetector(detector)),
		service.NewAIGenerator(scenarios, genaiClient, detector, logger.Named("ai")),
		cfg.AI,
		logger.Named("data"),
	)
	broadcasters := service.Broadcasters{hub}
	var notifier *service.SlackNotifier
	if cfg.Slack.Enabled() {
		notifier = service.NewSlackNotifier(
			client.NewSlackClient(cfg.Slack),
			model.AlertLevel(cfg.Slack.MinLevel),
			cfg.Slack.Timeout,
			logger.Named("slack"),
		)
		broadcasters = append(broadcasters, notifier)
		logger.Info("slack notifications enabled", zap.String("min_level", cfg.Slack.MinLevel))
	}
	alertService := service.NewAlertService(repo, detector, broadcasters, logger.Named("alerts"))

	// 5. 라우터
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		handler.RequestLogger(logger.Named("http")),
		handler.MetricsMiddleware(),
		handler.CORSMiddleware(cfg.Server.AllowedOrigins, false),
	)
	handler.RegisterRoutes(router, handler.Handlers{
		Health: handler.NewHealthHandler(cfg.Server.GinMode),
		Data:   handler.NewDataHandler(dataService, cfg.AI.APIKey),
		Alert:  handler.NewAlertHandler(alertService),
		Stream: handler.NewStreamHandler(hub, cfg.Server.AllowedOrigins, logger.Named("stream")),
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("ai_model", genaiClient.Model()),
			zap.Bool("ai_server_key", cfg.AI.APIKey != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	if notifier != nil {
		notifier.Wait()
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}

func openAlertRepository(ctx context.Context, pgCfg config.PostgresConfig, logger *zap.Logger) (service.AlertRepository, func()) {
	if !pgCfg.Enabled() {
		logger.Info("postgres not configured, keeping alerts in memory")
		return db.NewMemoryStore(), func() {}
	}

	pool, err := db.NewPostgresPool(ctx, pgCfg)
	if err != nil {
		logger.Warn("postgres unavailable, keeping alerts in memory", zap.Error(err))
		return db.NewMemoryStore(), func() {}
	}

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureAlertSchema(ctx); err != nil {
		pool.Close()
		logger.Warn("failed to ensure alert schema, keeping alerts in memory", zap.Error(err))
		return db.NewMemoryStore(), func() {}
	}

	logger.Info("alerts stored in postgres")
	return store, pool.Close
}
