package model

// ScenarioKey - 비즈니스 시나리오 식별자
type ScenarioKey string

const (
	ScenarioNormal    ScenarioKey = "normal"
	ScenarioPromotion ScenarioKey = "promotion"
	ScenarioOffSeason ScenarioKey = "off_season"
	ScenarioAnomaly   ScenarioKey = "anomaly"
	ScenarioCustom    ScenarioKey = "custom"
)

// Valid reports whether key is one of the request-boundary scenarios.
func (k ScenarioKey) Valid() bool {
	switch k {
	case ScenarioNormal, ScenarioPromotion, ScenarioOffSeason, ScenarioAnomaly, ScenarioCustom:
		return true
	}
	return false
}

// RegionalData - 지역별 매출
type RegionalData struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	ChangePercent float64 `json:"changePercent"`
}

// ProductData - 상품 카테고리별 매출
type ProductData struct {
	Name    string  `json:"name"`
	Revenue float64 `json:"revenue"`
	Margin  float64 `json:"margin"`
	Share   float64 `json:"share"`
}

// IndustryData - 산업 부문별 매출
type IndustryData struct {
	Name         string  `json:"name"`
	Revenue      float64 `json:"revenue"`
	ProfitMargin float64 `json:"profitMargin"`
	Share        float64 `json:"share"`
}

// CompetitorData - 경쟁사 점유율
type CompetitorData struct {
	Name        string  `json:"name"`
	MarketShare float64 `json:"marketShare"`
	GrowthRate  float64 `json:"growthRate"`
}

// RiskData - 리스크 평가 (level: 1~5)
type RiskData struct {
	Category string `json:"category"`
	Level    int    `json:"level"`
	Impact   string `json:"impact"`
}

// Snapshot - 한 번의 생성 결과 (rule-based / AI 동일한 형태)
//
// 모든 slice는 nil이 아닌 빈 배열로 채워서 두 경로의 JSON 형태가 동일하도록 유지
type Snapshot struct {
	Metrics        []Metric         `json:"metrics"`
	Trend          []TrendPoint     `json:"trend"`
	RegionalData   []RegionalData   `json:"regionalData"`
	ProductData    []ProductData    `json:"productData"`
	IndustryData   []IndustryData   `json:"industryData"`
	CompetitorData []CompetitorData `json:"competitorData"`
	RiskData       []RiskData       `json:"riskData"`
	Insight        string           `json:"insight"`
	Suggestion     string           `json:"suggestion"`
	Alerts         []Alert          `json:"alerts"`
}

// Metric finds a metric by identifier.
func (s *Snapshot) Metric(id MetricID) (Metric, bool) {
	if s == nil {
		return Metric{}, false
	}
	for _, m := range s.Metrics {
		if mid, ok := m.ID(); ok && mid == id {
			return m, true
		}
	}
	return Metric{}, false
}

// Normalize replaces nil slices with empty ones.
func (s *Snapshot) Normalize() {
	if s.Metrics == nil {
		s.Metrics = []Metric{}
	}
	if s.Trend == nil {
		s.Trend = []TrendPoint{}
	}
	if s.RegionalData == nil {
		s.RegionalData = []RegionalData{}
	}
	if s.ProductData == nil {
		s.ProductData = []ProductData{}
	}
	if s.IndustryData == nil {
		s.IndustryData = []IndustryData{}
	}
	if s.CompetitorData == nil {
		s.CompetitorData = []CompetitorData{}
	}
	if s.RiskData == nil {
		s.RiskData = []RiskData{}
	}
	if s.Alerts == nil {
		s.Alerts = []Alert{}
	}
}

// PreviousData - 이전 기간 스냅샷 (호출자가 다음 생성 요청에 명시적으로 전달)
type PreviousData struct {
	Metrics []Metric `json:"metrics"`
}

// Lookup finds a previous value by metric identifier. Zero values are treated as absent.
func (p *PreviousData) Lookup(id MetricID) (float64, bool) {
	if p == nil {
		return 0, false
	}
	for _, m := range p.Metrics {
		if mid, ok := m.ID(); ok && mid == id && m.Value != 0 {
			return m.Value, true
		}
	}
	return 0, false
}
