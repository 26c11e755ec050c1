package scenario

import "github.com/bi-data-explainer/backend/internal/model"

// 통화 단위는 모든 시나리오에서 동일
const (
	UnitCurrency = "CNY"
	UnitOrders   = "orders"
	UnitUsers    = "users"
	UnitPercent  = "%"
)

// Default returns the built-in configuration used when no file is available.
func Default() *Config {
	cfg, err := New(DefaultFile())
	if err != nil {
		// 내장 테이블은 항상 유효해야 함
		panic(err)
	}
	return cfg
}

// DefaultFile returns the raw built-in tables.
func DefaultFile() File {
	return File{
		Scenarios: map[string]Scenario{
			string(model.ScenarioNormal): {
				Label:       "Normal Operations",
				Description: "Business is developing steadily",
				Prompt:      "Normal operations: the business is developing steadily, indicators fluctuate within a small range and the overall trend rises slowly.",
				Multiplier:  1.0,
				Metrics: baselines(
					5000000, 0.05,
					12000, 0.08,
					120000, 0.06,
					3.2, 0.1,
					417, 0.04,
					35, 0.03,
					28, 0.08,
				),
				Insight:    "Business ran steadily this period. Revenue {{revenue.direction}} {{revenue.change_abs}}% and active users {{activeUsers.direction}} {{activeUsers.change_abs}}%. Indicators fluctuate within their normal ranges and the overall trend is stable.",
				Suggestion: "Suggestions: 1. Keep tracking how the core indicators move; 2. Improve product and service quality; 3. Maintain customer relationships to lift the repurchase rate.",
			},
			string(model.ScenarioPromotion): {
				Label:       "Promotion Campaign",
				Description: "A promotion is driving growth",
				Prompt:      "A large promotion campaign is running: the market response is strong, traffic and sales rise sharply and most indicators grow noticeably.",
				Multiplier:  1.5,
				Metrics: baselines(
					7500000, 0.12,
					20000, 0.15,
					180000, 0.1,
					4.5, 0.15,
					375, 0.08,
					32, 0.05,
					35, 0.1,
				),
				Insight:    "Driven by the campaign, revenue {{revenue.direction}} {{revenue.change_abs}}% and orders {{orders.direction}} {{orders.change_abs}}%. Gross margin is at {{grossMargin.value}}%, so promotion costs are putting some pressure on profit.",
				Suggestion: "Suggestions: 1. Keep up the promotion to widen market coverage; 2. Watch user retention and conversion quality; 3. Control promotion costs to improve ROI.",
			},
			string(model.ScenarioOffSeason): {
				Label:       "Off Season",
				Description: "Market demand is weak",
				Prompt:      "The business is in its off season: market demand is relatively weak, most indicators decline and the focus is on cutting costs and improving efficiency.",
				Multiplier:  0.7,
				Metrics: baselines(
					3500000, 0.1,
					8000, 0.12,
					90000, 0.08,
					2.8, 0.12,
					438, 0.06,
					33, 0.04,
					25, 0.1,
				),
				Insight:    "This is the off season. Revenue {{revenue.direction}} {{revenue.change_abs}}% and active users {{activeUsers.direction}} {{activeUsers.change_abs}}%. Cost control and user operations deserve extra attention during the slow period.",
				Suggestion: "Suggestions: 1. Optimise the cost structure and operating efficiency; 2. Strengthen care for existing customers; 3. Plan stock for the peak season and develop new product lines early.",
			},
			string(model.ScenarioAnomaly): {
				Label:       "Special Event",
				Description: "An unexpected incident occurred",
				Prompt:      "An unexpected incident (for example a system outage or a supply chain problem) has caused abnormal swings in the data that need urgent handling.",
				Multiplier:  0.5,
				Metrics: baselines(
					2500000, 0.3,
					5000, 0.4,
					60000, 0.25,
					2.0, 0.3,
					500, 0.15,
					28, 0.1,
					18, 0.2,
				),
				Insight:    "Abnormal swings detected this period: revenue changed {{revenue.change}}% and active users changed {{activeUsers.change}}%. The cause should be investigated immediately; external factors may be involved.",
				Suggestion: "Suggestions: 1. Investigate the cause immediately and prepare a response plan; 2. Tighten risk monitoring and early warning; 3. Coordinate with the affected departments to limit the impact.",
			},
		},
		Regions: []Region{
			{Name: "East", Weight: 0.35, Growth: 0.08},
			{Name: "South", Weight: 0.28, Growth: 0.12},
			{Name: "North", Weight: 0.22, Growth: 0.05},
			{Name: "West", Weight: 0.15, Growth: 0.15},
		},
		Products: []Product{
			{Name: "Electronics", RevenueShare: 0.45, Margin: 28},
			{Name: "Home Goods", RevenueShare: 0.25, Margin: 35},
			{Name: "Apparel", RevenueShare: 0.18, Margin: 42},
			{Name: "Food & Beverage", RevenueShare: 0.12, Margin: 25},
		},
		Industries: []Industry{
			{Name: "Technology", RevenueShare: 0.38, ProfitMargin: 32},
			{Name: "Healthcare", RevenueShare: 0.25, ProfitMargin: 35},
			{Name: "Education", RevenueShare: 0.18, ProfitMargin: 28},
			{Name: "Retail Services", RevenueShare: 0.12, ProfitMargin: 22},
			{Name: "Other", RevenueShare: 0.07, ProfitMargin: 20},
		},
		Competitors: []Competitor{
			{Name: "Competitor A", MarketShare: 18.5, GrowthRate: 8},
			{Name: "Competitor B", MarketShare: 15.2, GrowthRate: 12},
			{Name: "Competitor C", MarketShare: 10.8, GrowthRate: 5},
			{Name: "Other Competitors", MarketShare: 43.0, GrowthRate: 3},
		},
		Risks: []Risk{
			{Category: "Market Risk", Level: 3},
			{Category: "Operational Risk", Level: 2},
			{Category: "Financial Risk", Level: 4},
			{Category: "Technical Risk", Level: 2},
			{Category: "Legal Risk", Level: 3},
		},
		TimeBands: []TimeBand{
			{Name: "morning", Hours: []int{6, 7, 8, 9, 10, 11}, Multiplier: 0.6},
			{Name: "noon", Hours: []int{12, 13, 14}, Multiplier: 0.4},
			{Name: "afternoon", Hours: []int{15, 16, 17}, Multiplier: 0.9},
			{Name: "evening", Hours: []int{18, 19, 20, 21}, Multiplier: 1.2},
			{Name: "night", Hours: []int{22, 23, 0, 1, 2, 3, 4, 5}, Multiplier: 0.2},
		},
	}
}

// baselines takes (value, volatility) pairs in model.AllMetricIDs order.
func baselines(pairs ...float64) []MetricBaseline {
	ids := model.AllMetricIDs()
	units := map[model.MetricID]string{
		model.MetricRevenue:        UnitCurrency,
		model.MetricOrders:         UnitOrders,
		model.MetricActiveUsers:    UnitUsers,
		model.MetricConversionRate: UnitPercent,
		model.MetricAvgOrderValue:  UnitCurrency,
		model.MetricGrossMargin:    UnitPercent,
		model.MetricRepurchaseRate: UnitPercent,
	}

	out := make([]MetricBaseline, 0, len(ids))
	for i, id := range ids {
		out = append(out, MetricBaseline{
			ID:         id,
			Value:      pairs[2*i],
			Unit:       units[id],
			Volatility: pairs[2*i+1],
		})
	}
	return out
}
