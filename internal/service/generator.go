package service

import (
	"math"
	"sort"
	"time"

	"github.com/bi-data-explainer/backend/internal/model"
	"github.com/bi-data-explainer/backend/internal/scenario"
	"github.com/bi-data-explainer/backend/internal/template"
)

const (
	trendPoints     = 12
	trendIntervalMs = int64(time.Hour / time.Millisecond)
)

// Generator - 시나리오 설정 기반 스냅샷 생성기 (enhanced)
//
// 외부 호출이 없으므로 실패하지 않음. AI 경로가 불가능할 때의 fallback 경로로도 사용
type Generator struct {
	cfg      *scenario.Config
	rnd      Rand
	now      func() time.Time
	detector *Detector
}

type GeneratorOption func(*Generator)

func WithRand(r Rand) GeneratorOption {
	return func(g *Generator) { g.rnd = r }
}

func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

func WithDetector(d *Detector) GeneratorOption {
	return func(g *Generator) { g.detector = d }
}

func NewGenerator(cfg *scenario.Config, opts ...GeneratorOption) *Generator {
	g := &Generator{
		cfg: cfg,
		rnd: globalRand{},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.detector == nil {
		g.detector = NewDetector(DefaultAlertCooldown, WithDetectorClock(g.now))
	}
	return g
}

// Generate builds a fully populated snapshot for key. Unknown keys (and custom) use the
// normal baseline.
func (g *Generator) Generate(key model.ScenarioKey, previous *model.PreviousData) *model.Snapshot {
	sc, _ := g.cfg.Lookup(key)

	metricList := g.generateMetrics(sc, previous)
	revenue := g.revenueAnchor(sc, metricList)

	snapshot := &model.Snapshot{
		Metrics:        metricList,
		Trend:          g.generateTrend(revenue),
		RegionalData:   g.generateRegional(revenue, sc.Multiplier),
		ProductData:    g.generateProducts(revenue),
		IndustryData:   g.generateIndustries(revenue),
		CompetitorData: g.generateCompetitors(),
		RiskData:       g.generateRisks(sc.Multiplier),
		Insight:        template.RenderNarrative(sc.Insight, metricList),
		Suggestion:     template.RenderNarrative(sc.Suggestion, metricList),
		Alerts:         g.detector.Detect(metricList, key, nil),
	}
	snapshot.Normalize()
	return snapshot
}

func (g *Generator) generateMetrics(sc scenario.Scenario, previous *model.PreviousData) []model.Metric {
	out := make([]model.Metric, 0, len(sc.Metrics))
	for _, b := range sc.Metrics {
		value := b.Value * (1 + signedUnit(g.rnd)*b.Volatility)

		// 단위 자릿수로 반올림해 0이 되는 이전 값은 없는 것으로 취급
		prev, ok := previous.Lookup(b.ID)
		if !ok || model.Round(prev, model.UnitPlaces(b.Unit)) == 0 {
			prev = b.Value
		}

		out = append(out, model.NewMetric(b.ID.DisplayName(), b.Unit, value, prev))
	}
	return out
}

func (g *Generator) revenueAnchor(sc scenario.Scenario, metricList []model.Metric) float64 {
	for _, m := range metricList {
		if id, ok := m.ID(); ok && id == model.MetricRevenue {
			return m.Value
		}
	}
	if b, ok := sc.Baseline(model.MetricRevenue); ok {
		return b.Value
	}
	normal, _ := g.cfg.Lookup(model.ScenarioNormal)
	b, _ := normal.Baseline(model.MetricRevenue)
	return b.Value
}

// trendTimestamps returns 12 epoch-ms timestamps one hour apart, the last one at now.
func trendTimestamps(now time.Time) []int64 {
	nowMs := now.UnixMilli()
	out := make([]int64, 0, trendPoints)
	for i := trendPoints - 1; i >= 0; i-- {
		out = append(out, nowMs-int64(i)*trendIntervalMs)
	}
	return out
}

func (g *Generator) generateTrend(anchor float64) []model.TrendPoint {
	now := g.now()
	points := make([]model.TrendPoint, 0, trendPoints)
	for _, ts := range trendTimestamps(now) {
		hour := time.UnixMilli(ts).In(now.Location()).Hour()
		value := anchor * g.cfg.HourMultiplier(hour) * uniform(g.rnd, 0.85, 1.15)
		points = append(points, model.TrendPoint{Timestamp: ts, Value: model.Round(value, 0)})
	}
	return points
}

// breakdown 금액은 매출 × 가중치 × U(0.9, 1.1), 합계 재정규화는 하지 않음
func (g *Generator) share(revenue, weight float64) float64 {
	return model.Round(revenue*weight*uniform(g.rnd, 0.9, 1.1), 0)
}

func (g *Generator) generateRegional(revenue, multiplier float64) []model.RegionalData {
	regions := g.cfg.Regions()
	out := make([]model.RegionalData, 0, len(regions))
	for _, r := range regions {
		out = append(out, model.RegionalData{
			Name:          r.Name,
			Value:         g.share(revenue, r.Weight),
			ChangePercent: model.Round(r.Growth*100*multiplier+signedUnit(g.rnd)*5, 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

func (g *Generator) generateProducts(revenue float64) []model.ProductData {
	products := g.cfg.Products()
	out := make([]model.ProductData, 0, len(products))
	for _, p := range products {
		out = append(out, model.ProductData{
			Name:    p.Name,
			Revenue: g.share(revenue, p.RevenueShare),
			Margin:  model.Round(p.Margin+signedUnit(g.rnd)*2.5, 2),
			Share:   model.Round(p.RevenueShare*100, 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

func (g *Generator) generateIndustries(revenue float64) []model.IndustryData {
	industries := g.cfg.Industries()
	out := make([]model.IndustryData, 0, len(industries))
	for _, ind := range industries {
		out = append(out, model.IndustryData{
			Name:         ind.Name,
			Revenue:      g.share(revenue, ind.RevenueShare),
			ProfitMargin: model.Round(ind.ProfitMargin+signedUnit(g.rnd)*2.5, 2),
			Share:        model.Round(ind.RevenueShare*100, 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	return out
}

func (g *Generator) generateCompetitors() []model.CompetitorData {
	competitors := g.cfg.Competitors()
	out := make([]model.CompetitorData, 0, len(competitors))
	for _, c := range competitors {
		out = append(out, model.CompetitorData{
			Name:        c.Name,
			MarketShare: model.Round(c.MarketShare*uniform(g.rnd, 0.95, 1.05), 2),
			GrowthRate:  model.Round(c.GrowthRate+signedUnit(g.rnd)*2, 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MarketShare > out[j].MarketShare })
	return out
}

// 시나리오 배수가 낮을수록 리스크 등급 상승 (1~5)
func (g *Generator) generateRisks(multiplier float64) []model.RiskData {
	risks := g.cfg.Risks()
	shift := int(math.Round((1 - multiplier) * 2))

	out := make([]model.RiskData, 0, len(risks))
	for _, r := range risks {
		jitter := int(g.rnd.Float64()*3) - 1
		level := clampInt(r.Level+shift+jitter, 1, 5)
		out = append(out, model.RiskData{
			Category: r.Category,
			Level:    level,
			Impact:   riskImpact(level),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level > out[j].Level })
	return out
}

func riskImpact(level int) string {
	switch {
	case level >= 4:
		return "high"
	case level == 3:
		return "medium"
	default:
		return "low"
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
