package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bi-data-explainer/backend/internal/client"
	"github.com/bi-data-explainer/backend/internal/model"
	"github.com/bi-data-explainer/backend/internal/scenario"
)

var ErrRemoteGeneration = errors.New("remote generation failed")

// aiAlertMetric: 지표가 지정되지 않은 AI 알림의 metric 이름
const aiAlertMetric = "Overall"

const aiSystemInstruction = "You are a professional business data analyst. " +
	"Reply with exactly one JSON object that follows the requested structure. " +
	"Do not add explanations, markdown or code fences."

// Completer - 텍스트 생성 모델 호출 (client.GenAIClient)
type Completer interface {
	Complete(ctx context.Context, apiKey string, req client.CompletionRequest) (string, error)
}

// AIGenerator - 원격 LLM 기반 스냅샷 생성기
//
// 응답은 best-effort로 JSON을 추출한 뒤 엄격하게 검증하며, 일부만 유효해도 실패로 처리
type AIGenerator struct {
	cfg       *scenario.Config
	completer Completer
	detector  *Detector
	now       func() time.Time
	logger    *zap.Logger
}

type AIGeneratorOption func(*AIGenerator)

func WithAIClock(now func() time.Time) AIGeneratorOption {
	return func(g *AIGenerator) { g.now = now }
}

func NewAIGenerator(cfg *scenario.Config, completer Completer, detector *Detector, logger *zap.Logger, opts ...AIGeneratorOption) *AIGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &AIGenerator{
		cfg:       cfg,
		completer: completer,
		detector:  detector,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.detector == nil {
		g.detector = NewDetector(DefaultAlertCooldown, WithDetectorClock(g.now))
	}
	return g
}

// aiPayload - 모델이 반환해야 하는 JSON 구조
type aiPayload struct {
	Metrics        []aiMetric             `json:"metrics"`
	Trend          []model.TrendPoint     `json:"trend"`
	RegionalData   []model.RegionalData   `json:"regionalData"`
	ProductData    []model.ProductData    `json:"productData"`
	IndustryData   []model.IndustryData   `json:"industryData"`
	CompetitorData []model.CompetitorData `json:"competitorData"`
	RiskData       []model.RiskData       `json:"riskData"`
	Insight        string                 `json:"insight"`
	Suggestion     string                 `json:"suggestion"`
	Alerts         []aiAlert              `json:"alerts"`
}

// aiMetric - 필드 누락 여부를 구분하기 위해 포인터로 받음
type aiMetric struct {
	Name          string      `json:"name"`
	Value         *float64    `json:"value"`
	PreviousValue *float64    `json:"previousValue"`
	Change        *float64    `json:"change"`
	ChangePercent *float64    `json:"changePercent"`
	Unit          string      `json:"unit"`
	Trend         model.Trend `json:"trend"`
}

func (m aiMetric) toModel() model.Metric {
	name := strings.TrimSpace(m.Name)
	if id, ok := model.MetricIDFromName(name); ok {
		name = id.DisplayName()
	}
	return model.Metric{
		Name:          name,
		Value:         *m.Value,
		PreviousValue: *m.PreviousValue,
		Change:        *m.Change,
		ChangePercent: *m.ChangePercent,
		Unit:          strings.TrimSpace(m.Unit),
		Trend:         m.Trend,
	}
}

type aiAlert struct {
	Level   model.AlertLevel `json:"level"`
	Metric  string           `json:"metric"`
	Message string           `json:"message"`
}

// Generate asks the remote model for a snapshot. Every failure wraps ErrRemoteGeneration.
func (g *AIGenerator) Generate(ctx context.Context, req model.GenerateRequest, apiKey string) (*model.Snapshot, error) {
	timestamps := trendTimestamps(g.now())

	text, err := g.completer.Complete(ctx, apiKey, client.CompletionRequest{
		SystemInstruction: aiSystemInstruction,
		Prompt:            g.buildPrompt(req, timestamps),
		JSON:              true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteGeneration, err)
	}

	payload, err := decodePayload(text)
	if err != nil {
		g.logger.Debug("rejected remote generation output", zap.Error(err), zap.Int("length", len(text)))
		return nil, fmt.Errorf("%w: %v", ErrRemoteGeneration, err)
	}

	// 트렌드 시각은 요청 시 계산한 값으로 고정
	for i := range payload.Trend {
		payload.Trend[i].Timestamp = timestamps[i]
	}

	metricList := make([]model.Metric, 0, len(payload.Metrics))
	for _, m := range payload.Metrics {
		metricList = append(metricList, m.toModel())
	}

	snapshot := &model.Snapshot{
		Metrics:        metricList,
		Trend:          payload.Trend,
		RegionalData:   payload.RegionalData,
		ProductData:    payload.ProductData,
		IndustryData:   payload.IndustryData,
		CompetitorData: payload.CompetitorData,
		RiskData:       payload.RiskData,
		Insight:        strings.TrimSpace(payload.Insight),
		Suggestion:     strings.TrimSpace(payload.Suggestion),
	}
	snapshot.Alerts = g.mergeAlerts(g.detector.Detect(metricList, req.Scenario, nil), payload.Alerts)
	snapshot.Normalize()
	return snapshot, nil
}

// 규칙 기반 알림을 먼저 두고, 같은 지표를 다루지 않는 AI 알림만 뒤에 추가
func (g *AIGenerator) mergeAlerts(ruleAlerts []model.Alert, extra []aiAlert) []model.Alert {
	covered := make(map[string]bool, len(ruleAlerts))
	for _, a := range ruleAlerts {
		covered[alertKey(a.Metric)] = true
	}

	nowMs := g.now().UnixMilli()
	out := append([]model.Alert{}, ruleAlerts...)
	for _, a := range extra {
		message := strings.TrimSpace(a.Message)
		if message == "" {
			continue
		}
		metric := strings.TrimSpace(a.Metric)
		if metric == "" {
			metric = aiAlertMetric
		}
		if covered[alertKey(metric)] {
			continue
		}
		covered[alertKey(metric)] = true

		level := a.Level
		if !level.Valid() {
			level = model.AlertInfo
		}
		out = append(out, model.Alert{
			ID:        uuid.NewString(),
			Level:     level,
			Metric:    metric,
			Message:   message,
			Timestamp: nowMs,
		})
	}
	return out
}

func (g *AIGenerator) buildPrompt(req model.GenerateRequest, timestamps []int64) string {
	sc, _ := g.cfg.Lookup(req.Scenario)
	description := sc.Prompt
	if req.Scenario == model.ScenarioCustom && req.Description() != "" {
		description = req.Description()
	}

	var b strings.Builder
	b.WriteString("Generate one period of business dashboard data for the following scenario.\n\n")
	fmt.Fprintf(&b, "Scenario: %s\n\n", description)

	b.WriteString("Previous period reference figures:\n")
	schema := g.cfg.MetricSchema()
	for _, m := range schema {
		prev, ok := req.PreviousData.Lookup(m.ID)
		if !ok {
			if base, found := sc.Baseline(m.ID); found {
				prev = base.Value
			} else {
				prev = m.Value
			}
		}
		fmt.Fprintf(&b, "- %s: %s %s\n", m.ID.DisplayName(), formatFigure(prev, m.Unit), m.Unit)
	}

	b.WriteString("\nReturn JSON with exactly this structure:\n{\n  \"metrics\": [\n")
	for i, m := range schema {
		fmt.Fprintf(&b, "    {\"name\": %q, \"value\": <number>, \"previousValue\": <previous figure>, \"change\": <number>, \"changePercent\": <number, 2 decimals>, \"unit\": %q, \"trend\": \"up|down|stable\"}%s\n",
			m.ID.DisplayName(), m.Unit, listSep(i, len(schema)))
	}
	b.WriteString("  ],\n  \"trend\": [\n")
	for i, ts := range timestamps {
		fmt.Fprintf(&b, "    {\"timestamp\": %d, \"value\": <revenue for that hour, integer>}%s\n", ts, listSep(i, len(timestamps)))
	}
	b.WriteString("  ],\n")

	writeNamed(&b, "regionalData", regionNames(g.cfg), `"value": <integer>, "changePercent": <number, 2 decimals>`)
	writeNamed(&b, "productData", productNames(g.cfg), `"revenue": <integer>, "margin": <number, 2 decimals>, "share": <number, 2 decimals>`)
	writeNamed(&b, "industryData", industryNames(g.cfg), `"revenue": <integer>, "profitMargin": <number, 2 decimals>, "share": <number, 2 decimals>`)
	writeNamed(&b, "competitorData", competitorNames(g.cfg), `"marketShare": <number, 2 decimals>, "growthRate": <number, 2 decimals>`)

	b.WriteString("  \"riskData\": [\n")
	risks := g.cfg.Risks()
	for i, r := range risks {
		fmt.Fprintf(&b, "    {\"category\": %q, \"level\": <integer 1-5>, \"impact\": \"low|medium|high\"}%s\n", r.Category, listSep(i, len(risks)))
	}
	b.WriteString("  ],\n")
	b.WriteString("  \"insight\": \"<2-3 sentences on what changed, the likely cause and the business impact>\",\n")
	b.WriteString("  \"suggestion\": \"<1-2 concrete, actionable suggestions>\",\n")
	b.WriteString("  \"alerts\": [\n    {\"level\": \"info|warning|critical\", \"metric\": \"<metric name>\", \"message\": \"<alert text>\"}\n  ]\n}\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("1. Return only the JSON object, nothing else.\n")
	b.WriteString("2. changePercent = (value - previousValue) / previousValue * 100, rounded to 2 decimals.\n")
	b.WriteString("3. trend is \"stable\" when |changePercent| < 2, otherwise \"up\" or \"down\" matching its sign.\n")
	fmt.Fprintf(&b, "4. trend must contain exactly %d points with the timestamps given above.\n", trendPoints)
	b.WriteString("5. Sort regionalData by value and productData, industryData by revenue, highest first.\n")
	b.WriteString("6. All figures must be realistic and consistent with the scenario.\n")
	return b.String()
}

func writeNamed(b *strings.Builder, field string, names []string, fields string) {
	fmt.Fprintf(b, "  %q: [\n", field)
	for i, name := range names {
		fmt.Fprintf(b, "    {\"name\": %q, %s}%s\n", name, fields, listSep(i, len(names)))
	}
	b.WriteString("  ],\n")
}

func listSep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func formatFigure(v float64, unit string) string {
	return fmt.Sprintf("%.*f", int(model.UnitPlaces(unit)), v)
}

func regionNames(cfg *scenario.Config) []string {
	var out []string
	for _, r := range cfg.Regions() {
		out = append(out, r.Name)
	}
	return out
}

func productNames(cfg *scenario.Config) []string {
	var out []string
	for _, p := range cfg.Products() {
		out = append(out, p.Name)
	}
	return out
}

func industryNames(cfg *scenario.Config) []string {
	var out []string
	for _, i := range cfg.Industries() {
		out = append(out, i.Name)
	}
	return out
}

func competitorNames(cfg *scenario.Config) []string {
	var out []string
	for _, c := range cfg.Competitors() {
		out = append(out, c.Name)
	}
	return out
}

// decodePayload extracts the first JSON object from text, parses it and validates the
// required fields.
func decodePayload(text string) (*aiPayload, error) {
	raw, ok := extractJSONObject(text)
	if !ok {
		return nil, errors.New("no JSON object in model output")
	}

	var payload aiPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	if err := validatePayload(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func validatePayload(p *aiPayload) error {
	if len(p.Metrics) == 0 {
		return errors.New("metrics missing")
	}
	for i, m := range p.Metrics {
		if err := validateMetric(m); err != nil {
			return fmt.Errorf("metrics[%d]: %w", i, err)
		}
	}
	if len(p.Trend) != trendPoints {
		return fmt.Errorf("trend has %d points, want %d", len(p.Trend), trendPoints)
	}
	if strings.TrimSpace(p.Insight) == "" {
		return errors.New("insight missing")
	}
	if strings.TrimSpace(p.Suggestion) == "" {
		return errors.New("suggestion missing")
	}
	return nil
}

func validateMetric(m aiMetric) error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name missing")
	}
	if _, ok := model.MetricIDFromName(m.Name); !ok {
		return fmt.Errorf("unknown metric %q", m.Name)
	}
	if m.Value == nil || m.PreviousValue == nil || m.Change == nil || m.ChangePercent == nil {
		return fmt.Errorf("%s: figures missing", m.Name)
	}
	if strings.TrimSpace(m.Unit) == "" {
		return fmt.Errorf("%s: unit missing", m.Name)
	}
	switch m.Trend {
	case model.TrendUp, model.TrendDown, model.TrendStable:
	default:
		return fmt.Errorf("%s: invalid trend %q", m.Name, m.Trend)
	}
	return nil
}

// extractJSONObject returns the first balanced {...} substring of text. Braces inside JSON
// strings are ignored.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
