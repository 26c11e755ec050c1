// Package scenario holds the static business-data configuration that parameterises both
// snapshot generators: per-scenario baselines, the shared scenario multiplier, breakdown weight
// tables and the time-of-day multiplier table.
//
// A Config is built once (Load or Default) and passed explicitly to its consumers. It is never
// mutated after construction; WithVolatility returns a copy.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/bi-data-explainer/backend/internal/model"
)

// ErrConfigLoad - 설정 파일 누락/손상 (호출자는 Default()로 대체)
var ErrConfigLoad = errors.New("scenario config load failed")

const weightTolerance = 0.01

// MetricBaseline - 시나리오별 기준 지표
type MetricBaseline struct {
	ID         model.MetricID `mapstructure:"id" json:"id"`
	Value      float64        `mapstructure:"value" json:"value"`
	Unit       string         `mapstructure:"unit" json:"unit"`
	Volatility float64        `mapstructure:"volatility" json:"volatility"`
}

// Scenario - 시나리오 정의
type Scenario struct {
	Label       string `mapstructure:"label" json:"label"`
	Description string `mapstructure:"description" json:"description"`
	// Prompt: AI 생성기에 전달하는 시나리오 설명 문장
	Prompt     string           `mapstructure:"prompt" json:"prompt"`
	Multiplier float64          `mapstructure:"multiplier" json:"multiplier"`
	Metrics    []MetricBaseline `mapstructure:"metrics" json:"metrics"`
	Insight    string           `mapstructure:"insight" json:"insight"`
	Suggestion string           `mapstructure:"suggestion" json:"suggestion"`
}

// Baseline finds a metric baseline by identifier.
func (s Scenario) Baseline(id model.MetricID) (MetricBaseline, bool) {
	for _, m := range s.Metrics {
		if m.ID == id {
			return m, true
		}
	}
	return MetricBaseline{}, false
}

type Region struct {
	Name   string  `mapstructure:"name" json:"name"`
	Weight float64 `mapstructure:"weight" json:"weight"`
	Growth float64 `mapstructure:"growth" json:"growth"`
}

type Product struct {
	Name         string  `mapstructure:"name" json:"name"`
	RevenueShare float64 `mapstructure:"revenue_share" json:"revenueShare"`
	Margin       float64 `mapstructure:"margin" json:"margin"`
}

type Industry struct {
	Name         string  `mapstructure:"name" json:"name"`
	RevenueShare float64 `mapstructure:"revenue_share" json:"revenueShare"`
	ProfitMargin float64 `mapstructure:"profit_margin" json:"profitMargin"`
}

type Competitor struct {
	Name        string  `mapstructure:"name" json:"name"`
	MarketShare float64 `mapstructure:"market_share" json:"marketShare"`
	GrowthRate  float64 `mapstructure:"growth_rate" json:"growthRate"`
}

type Risk struct {
	Category string `mapstructure:"category" json:"category"`
	Level    int    `mapstructure:"level" json:"level"`
}

// TimeBand - 시간대별 매출 배수 (hours: 0~23)
type TimeBand struct {
	Name       string  `mapstructure:"name" json:"name"`
	Hours      []int   `mapstructure:"hours" json:"hours"`
	Multiplier float64 `mapstructure:"multiplier" json:"multiplier"`
}

// File is the on-disk shape of the configuration.
type File struct {
	Scenarios   map[string]Scenario `mapstructure:"scenarios" json:"scenarios"`
	Regions     []Region            `mapstructure:"regions" json:"regions"`
	Products    []Product           `mapstructure:"products" json:"products"`
	Industries  []Industry          `mapstructure:"industries" json:"industries"`
	Competitors []Competitor        `mapstructure:"competitors" json:"competitors"`
	Risks       []Risk              `mapstructure:"risks" json:"risks"`
	TimeBands   []TimeBand          `mapstructure:"time_bands" json:"timeBands"`
}

// Config - 검증이 끝난 읽기 전용 설정
type Config struct {
	file   File
	hourly [24]float64
}

// New validates f and compiles the hourly multiplier table.
func New(f File) (*Config, error) {
	if err := validate(f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	cfg := &Config{file: cloneFile(f)}
	for _, band := range f.TimeBands {
		for _, h := range band.Hours {
			cfg.hourly[h] = band.Multiplier
		}
	}
	return cfg, nil
}

// Lookup returns the scenario for key. Unknown keys (including custom) fall back to normal.
func (c *Config) Lookup(key model.ScenarioKey) (Scenario, model.ScenarioKey) {
	if s, ok := c.file.Scenarios[string(key)]; ok {
		return s, key
	}
	return c.file.Scenarios[string(model.ScenarioNormal)], model.ScenarioNormal
}

// Has reports whether key has its own configuration entry.
func (c *Config) Has(key model.ScenarioKey) bool {
	_, ok := c.file.Scenarios[string(key)]
	return ok
}

// Multiplier returns the shared scenario multiplier for key.
func (c *Config) Multiplier(key model.ScenarioKey) float64 {
	s, _ := c.Lookup(key)
	return s.Multiplier
}

// HourMultiplier returns the time-of-day multiplier for hour (0-23).
func (c *Config) HourMultiplier(hour int) float64 {
	return c.hourly[((hour%24)+24)%24]
}

func (c *Config) Regions() []Region         { return append([]Region(nil), c.file.Regions...) }
func (c *Config) Products() []Product       { return append([]Product(nil), c.file.Products...) }
func (c *Config) Industries() []Industry    { return append([]Industry(nil), c.file.Industries...) }
func (c *Config) Competitors() []Competitor { return append([]Competitor(nil), c.file.Competitors...) }
func (c *Config) Risks() []Risk             { return append([]Risk(nil), c.file.Risks...) }

// MetricSchema returns the metric set and units every snapshot carries, taken from the
// normal scenario.
func (c *Config) MetricSchema() []MetricBaseline {
	s, _ := c.Lookup(model.ScenarioNormal)
	return append([]MetricBaseline(nil), s.Metrics...)
}

// Catalog lists the fixed scenarios plus the free-text custom option.
func (c *Config) Catalog() []model.ScenarioOption {
	order := []model.ScenarioKey{
		model.ScenarioNormal,
		model.ScenarioPromotion,
		model.ScenarioOffSeason,
		model.ScenarioAnomaly,
	}

	options := make([]model.ScenarioOption, 0, len(order)+1)
	for _, key := range order {
		s, ok := c.file.Scenarios[string(key)]
		if !ok {
			continue
		}
		options = append(options, model.ScenarioOption{Value: key, Label: s.Label, Description: s.Description})
	}

	// 파일에 추가로 정의된 시나리오도 노출
	var extra []string
	for key := range c.file.Scenarios {
		if !isBuiltin(model.ScenarioKey(key)) {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		s := c.file.Scenarios[key]
		options = append(options, model.ScenarioOption{Value: model.ScenarioKey(key), Label: s.Label, Description: s.Description})
	}

	return append(options, model.ScenarioOption{
		Value:       model.ScenarioCustom,
		Label:       "Custom Scenario",
		Description: "Describe a specific situation and let the AI generate matching data",
	})
}

// WithVolatility returns a copy in which every metric volatility is v.
func (c *Config) WithVolatility(v float64) *Config {
	out := &Config{file: cloneFile(c.file), hourly: c.hourly}
	for key, s := range out.file.Scenarios {
		for i := range s.Metrics {
			s.Metrics[i].Volatility = v
		}
		out.file.Scenarios[key] = s
	}
	return out
}

func isBuiltin(key model.ScenarioKey) bool {
	switch key {
	case model.ScenarioNormal, model.ScenarioPromotion, model.ScenarioOffSeason, model.ScenarioAnomaly:
		return true
	}
	return false
}

func validate(f File) error {
	normal, ok := f.Scenarios[string(model.ScenarioNormal)]
	if !ok {
		return errors.New("scenario \"normal\" is required")
	}
	if _, ok := normal.Baseline(model.MetricRevenue); !ok {
		return errors.New("scenario \"normal\" must define the revenue metric")
	}

	for key, s := range f.Scenarios {
		if key == string(model.ScenarioCustom) {
			return errors.New("scenario \"custom\" is reserved for free-text requests")
		}
		if s.Multiplier <= 0 {
			return fmt.Errorf("scenario %q: multiplier must be positive", key)
		}
		if len(s.Metrics) == 0 {
			return fmt.Errorf("scenario %q: no metrics", key)
		}
		for _, m := range s.Metrics {
			if !m.ID.Valid() {
				return fmt.Errorf("scenario %q: unknown metric %q", key, m.ID)
			}
			if m.Value <= 0 {
				return fmt.Errorf("scenario %q: metric %q baseline must be positive", key, m.ID)
			}
			if m.Volatility < 0 {
				return fmt.Errorf("scenario %q: metric %q volatility must not be negative", key, m.ID)
			}
		}
	}

	regionWeights := make([]float64, 0, len(f.Regions))
	for _, r := range f.Regions {
		regionWeights = append(regionWeights, r.Weight)
	}
	if err := checkWeights("regions", regionWeights); err != nil {
		return err
	}
	productWeights := make([]float64, 0, len(f.Products))
	for _, p := range f.Products {
		productWeights = append(productWeights, p.RevenueShare)
	}
	if err := checkWeights("products", productWeights); err != nil {
		return err
	}
	industryWeights := make([]float64, 0, len(f.Industries))
	for _, i := range f.Industries {
		industryWeights = append(industryWeights, i.RevenueShare)
	}
	if err := checkWeights("industries", industryWeights); err != nil {
		return err
	}

	for _, r := range f.Risks {
		if r.Level < 1 || r.Level > 5 {
			return fmt.Errorf("risk %q: level must be within 1..5", r.Category)
		}
	}

	return checkTimeBands(f.TimeBands)
}

// 빈 테이블은 허용 (빈 breakdown 배열 생성)
func checkWeights(dimension string, weights []float64) error {
	if len(weights) == 0 {
		return nil
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s: negative weight", dimension)
		}
		sum += w
	}
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%s: weights sum to %.4f, want 1.0", dimension, sum)
	}
	return nil
}

// 0~23시 모든 시간이 정확히 한 번씩 포함되어야 함
func checkTimeBands(bands []TimeBand) error {
	var seen [24]bool
	for _, band := range bands {
		if band.Multiplier <= 0 {
			return fmt.Errorf("time band %q: multiplier must be positive", band.Name)
		}
		for _, h := range band.Hours {
			if h < 0 || h > 23 {
				return fmt.Errorf("time band %q: hour %d out of range", band.Name, h)
			}
			if seen[h] {
				return fmt.Errorf("time band %q: hour %d already covered", band.Name, h)
			}
			seen[h] = true
		}
	}
	for h, ok := range seen {
		if !ok {
			return fmt.Errorf("time bands: hour %d not covered", h)
		}
	}
	return nil
}

func cloneFile(f File) File {
	out := File{
		Scenarios:   make(map[string]Scenario, len(f.Scenarios)),
		Regions:     append([]Region(nil), f.Regions...),
		Products:    append([]Product(nil), f.Products...),
		Industries:  append([]Industry(nil), f.Industries...),
		Competitors: append([]Competitor(nil), f.Competitors...),
		Risks:       append([]Risk(nil), f.Risks...),
		TimeBands:   make([]TimeBand, 0, len(f.TimeBands)),
	}
	for key, s := range f.Scenarios {
		s.Metrics = append([]MetricBaseline(nil), s.Metrics...)
		out.Scenarios[key] = s
	}
	for _, b := range f.TimeBands {
		b.Hours = append([]int(nil), b.Hours...)
		out.TimeBands = append(out.TimeBands, b)
	}
	return out
}
