package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bi-data-explainer/backend/internal/model"
)

const serviceName = "bi-data-explainer"

// HealthHandler - 실행 모드(development/production)를 함께 보고
type HealthHandler struct {
	mode string
	now  func() time.Time
}

func NewHealthHandler(ginMode string) *HealthHandler {
	mode := "development"
	if ginMode == gin.ReleaseMode {
		mode = "production"
	}
	return &HealthHandler{mode: mode, now: time.Now}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    "ok",
		Service:   serviceName,
		Mode:      h.mode,
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	})
}

// 헬스체크 엔드포인트
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// 루트 엔드포인트
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Status:  "ok",
		Message: "BI data explainer API server is running",
	})
}
