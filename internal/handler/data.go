// 대시보드 데이터 생성 요청을 처리하는 핸들러
//
// 요청 흐름:
//  1. 대시보드가 POST /api/data/generate로 시나리오와 이전 기간 데이터를 전송
//  2. 헤더(X-AI-API-Key)에서 AI 키를 꺼내고, 없으면 서버 설정 키 사용
//  3. service 레이어가 AI 또는 rule-based 경로로 스냅샷 생성
//
// 검증 오류 외에는 항상 200을 반환하며, 실제 생성 경로는 source 필드로만 구분

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bi-data-explainer/backend/internal/model"
	"github.com/bi-data-explainer/backend/internal/service"
)

const (
	headerAPIKey           = "X-AI-API-Key"
	headerModelscopeAPIKey = "X-Modelscope-Api-Key"
)

type DataHandler struct {
	svc           *service.DataService
	defaultAPIKey string
}

func NewDataHandler(svc *service.DataService, defaultAPIKey string) *DataHandler {
	return &DataHandler{svc: svc, defaultAPIKey: strings.TrimSpace(defaultAPIKey)}
}

// Generate godoc
// @Summary Generate a dashboard snapshot
// @Description Tries the remote model first and falls back to the rule-based generator. The source field reports which path produced the data.
// @Tags data
// @Accept json
// @Produce json
// @Param X-AI-API-Key header string false "AI API key (overrides the server key)"
// @Param request body model.GenerateRequest true "Generation request"
// @Success 200 {object} model.GenerateResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/data/generate [post]
func (h *DataHandler) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := h.svc.Generate(c.Request.Context(), req, h.apiKey(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidScenario) || errors.Is(err, service.ErrMissingCustomDescription) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Scenarios godoc
// @Summary List selectable scenarios
// @Tags data
// @Produce json
// @Success 200 {object} model.ScenarioListResponse
// @Router /api/data/scenarios [get]
func (h *DataHandler) Scenarios(c *gin.Context) {
	c.JSON(http.StatusOK, model.ScenarioListResponse{
		Success:   true,
		Scenarios: h.svc.Scenarios(),
	})
}

// 요청 헤더 키 우선, 없으면 서버 설정 키
func (h *DataHandler) apiKey(c *gin.Context) string {
	for _, name := range []string{headerAPIKey, headerModelscopeAPIKey} {
		if key := strings.TrimSpace(c.GetHeader(name)); key != "" {
			return key
		}
	}
	return h.defaultAPIKey
}
