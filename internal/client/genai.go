// 원격 LLM(genai)과 통신하는 텍스트 생성 클라이언트 정의
//
// 환경변수:
//   - AI_API_KEY: 서버 기본 API 키 (요청 헤더로 전달된 키가 우선)
//   - AI_BASE_URL: 엔드포인트 override (선택)
//   - AI_MODEL: 생성 모델 이름
//
// API 키별로 genai.Client를 캐시하여 재사용

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/bi-data-explainer/backend/internal/config"
)

var ErrMissingAPIKey = errors.New("missing AI api key")

// CompletionRequest - 단일 생성 요청
type CompletionRequest struct {
	SystemInstruction string
	Prompt            string
	// JSON이 true면 application/json 응답을 요청
	JSON bool
}

// GenAIClient 구조체 정의
type GenAIClient struct {
	baseURL         string
	model           string
	temperature     float32
	maxOutputTokens int32
	httpClient      *http.Client

	clients sync.Map // apiKey -> *genai.Client
}

// GenAIClient 객체 생성
func NewGenAIClient(cfg config.AIConfig) *GenAIClient {
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GenAIClient{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		model:           model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		httpClient: &http.Client{
			Timeout: cfg.TransportTimeout,
		},
	}
}

func (c *GenAIClient) Model() string {
	return c.model
}

// Complete sends one prompt and returns the model's text output.
func (c *GenAIClient) Complete(ctx context.Context, apiKey string, req CompletionRequest) (string, error) {
	client, err := c.clientFor(ctx, apiKey)
	if err != nil {
		return "", err
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		MaxOutputTokens: c.maxOutputTokens,
	}
	if req.SystemInstruction != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.JSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", errors.New("empty generate content response")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty generate content response")
	}
	return text, nil
}

func (c *GenAIClient) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cached, ok := c.clients.Load(apiKey); ok {
		return cached.(*genai.Client), nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL + "/"}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	actual, _ := c.clients.LoadOrStore(apiKey, client)
	return actual.(*genai.Client), nil
}
