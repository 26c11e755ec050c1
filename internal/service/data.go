package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bi-data-explainer/backend/internal/config"
	"github.com/bi-data-explainer/backend/internal/metrics"
	"github.com/bi-data-explainer/backend/internal/model"
	"github.com/bi-data-explainer/backend/internal/scenario"
)

var (
	ErrInvalidScenario          = errors.New("invalid scenario")
	ErrMissingCustomDescription = errors.New("custom scenario requires scenarioDescription")
)

// RuleGenerator - 실패하지 않는 로컬 생성기
type RuleGenerator interface {
	Generate(key model.ScenarioKey, previous *model.PreviousData) *model.Snapshot
}

// RemoteGenerator - 원격 AI 생성기 (실패 시 ErrRemoteGeneration)
type RemoteGenerator interface {
	Generate(ctx context.Context, req model.GenerateRequest, apiKey string) (*model.Snapshot, error)
}

// DataService - 생성 경로 선택 및 fallback 정책
//
// 정책:
//  1. useAI=false, custom 시나리오(CustomViaAI 비활성), API 키 없음 → rule-based
//  2. 그 외에는 제한 시간 안에 AI 생성을 시도하고, 실패/타임아웃이면 rule-based로 대체
type DataService struct {
	cfg         *scenario.Config
	rules       RuleGenerator
	remote      RemoteGenerator
	timeout     time.Duration
	customViaAI bool
	logger      *zap.Logger
}

func NewDataService(cfg *scenario.Config, rules RuleGenerator, remote RemoteGenerator, aiCfg config.AIConfig, logger *zap.Logger) *DataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := aiCfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DataService{
		cfg:         cfg,
		rules:       rules,
		remote:      remote,
		timeout:     timeout,
		customViaAI: aiCfg.CustomViaAI,
		logger:      logger,
	}
}

func (s *DataService) Scenarios() []model.ScenarioOption {
	return s.cfg.Catalog()
}

// Validate rejects requests before any generation work starts.
func (s *DataService) Validate(req model.GenerateRequest) error {
	if req.Scenario == "" {
		return fmt.Errorf("%w: scenario is required", ErrInvalidScenario)
	}
	if !req.Scenario.Valid() && !s.cfg.Has(req.Scenario) {
		return fmt.Errorf("%w: %q", ErrInvalidScenario, req.Scenario)
	}
	if req.Scenario == model.ScenarioCustom && req.Description() == "" {
		return ErrMissingCustomDescription
	}
	return nil
}

// Generate validates req and wraps the snapshot in the response envelope. Only validation errors are
// returned; generation itself always succeeds.
func (s *DataService) Generate(ctx context.Context, req model.GenerateRequest, apiKey string) (*model.GenerateResponse, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	snapshot, source := s.ObtainSnapshot(ctx, req, apiKey)
	return &model.GenerateResponse{
		Success: true,
		Data:    snapshot,
		Source:  source,
	}, nil
}

// ObtainSnapshot picks the generator and falls back to the rule-based path on any remote
// failure.
func (s *DataService) ObtainSnapshot(ctx context.Context, req model.GenerateRequest, apiKey string) (*model.Snapshot, model.Source) {
	start := time.Now()

	if s.useRemote(req, apiKey) {
		snapshot, err := s.generateRemote(ctx, req, apiKey)
		if err == nil {
			observeGeneration(model.SourceAI, start)
			return snapshot, model.SourceAI
		}

		reason := failureReason(err)
		metrics.AIFailuresTotal.WithLabelValues(reason).Inc()
		s.logger.Warn("remote generation failed, falling back to rule-based generator",
			zap.String("scenario", string(req.Scenario)),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}

	snapshot := s.rules.Generate(req.Scenario, req.PreviousData)
	observeGeneration(model.SourceEnhanced, start)
	return snapshot, model.SourceEnhanced
}

func (s *DataService) useRemote(req model.GenerateRequest, apiKey string) bool {
	if s.remote == nil || !req.WantsAI() || apiKey == "" {
		return false
	}
	if req.Scenario == model.ScenarioCustom && !s.customViaAI {
		return false
	}
	return true
}

type remoteResult struct {
	snapshot *model.Snapshot
	err      error
}

// 원격 호출과 제한 시간을 경쟁시킴. 늦게 끝난 호출 결과는 버퍼 채널에 남고 버려짐
func (s *DataService) generateRemote(ctx context.Context, req model.GenerateRequest, apiKey string) (*model.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan remoteResult, 1)
	go func() {
		snapshot, err := s.remote.Generate(ctx, req, apiKey)
		done <- remoteResult{snapshot: snapshot, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if res.snapshot == nil {
			return nil, fmt.Errorf("%w: empty snapshot", ErrRemoteGeneration)
		}
		return res.snapshot, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrRemoteGeneration, ctx.Err())
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrRemoteGeneration):
		return "remote"
	default:
		return "unknown"
	}
}

func observeGeneration(source model.Source, start time.Time) {
	metrics.GenerationTotal.WithLabelValues(string(source)).Inc()
	metrics.GenerationDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())
}
