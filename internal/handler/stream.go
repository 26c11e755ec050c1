package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	ws "github.com/bi-data-explainer/backend/internal/websocket"
)

// StreamHandler - 실시간 알림 피드 websocket 업그레이드
type StreamHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewStreamHandler(hub *ws.Hub, allowedOrigins []string, logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	matcher := newOriginMatcher(allowedOrigins)
	return &StreamHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// 브라우저 외 클라이언트는 Origin 헤더 없음
				return origin == "" || matcher.allowed(origin)
			},
		},
		logger: logger,
	}
}

// Stream godoc
// @Summary Live alert feed
// @Description Upgrades to a websocket that receives {"type":"alert","payload":Alert} messages for every newly emitted alert.
// @Tags alerts
// @Success 101 {string} string "Switching Protocols"
// @Router /api/alerts/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade가 이미 오류 응답을 작성함
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	ws.NewClient(h.hub, conn).Serve()
}
