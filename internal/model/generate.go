package model

import "strings"

// Source - 스냅샷을 생성한 경로
type Source string

const (
	SourceAI       Source = "ai"
	SourceEnhanced Source = "enhanced"
)

// GenerateRequest - POST /api/data/generate 요청
type GenerateRequest struct {
	Scenario            ScenarioKey   `json:"scenario"`
	ScenarioDescription string        `json:"scenarioDescription,omitempty"`
	UseAI               *bool         `json:"useAI,omitempty"`
	PreviousData        *PreviousData `json:"previousData,omitempty"`
}

// WantsAI defaults to true when useAI is omitted.
func (r GenerateRequest) WantsAI() bool {
	return r.UseAI == nil || *r.UseAI
}

func (r GenerateRequest) Description() string {
	return strings.TrimSpace(r.ScenarioDescription)
}

// GenerateResponse - POST /api/data/generate 응답
type GenerateResponse struct {
	Success bool      `json:"success"`
	Data    *Snapshot `json:"data,omitempty"`
	Source  Source    `json:"source,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// ScenarioOption - 시나리오 카탈로그 항목
type ScenarioOption struct {
	Value       ScenarioKey `json:"value"`
	Label       string      `json:"label"`
	Description string      `json:"description"`
}

type ScenarioListResponse struct {
	Success   bool             `json:"success"`
	Scenarios []ScenarioOption `json:"scenarios"`
}
