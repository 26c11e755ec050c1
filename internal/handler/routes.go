package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers - 라우터에 등록할 핸들러 묶음
type Handlers struct {
	Health *HealthHandler
	Data   *DataHandler
	Alert  *AlertHandler
	Stream *StreamHandler
}

// RegisterRoutes wires every API route onto r. /metrics is registered by the caller.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	r.GET("/", Root)
	r.GET("/ping", Ping)
	r.GET("/health", h.Health.Health)
	r.GET("/openapi.json", OpenAPIDoc)

	api := r.Group("/api")

	data := api.Group("/data")
	data.POST("/generate", h.Data.Generate)
	data.GET("/scenarios", h.Data.Scenarios)

	alerts := api.Group("/alerts")
	alerts.GET("", h.Alert.List)
	alerts.POST("/evaluate", h.Alert.Evaluate)
	alerts.POST("/ack-all", h.Alert.AcknowledgeAll)
	alerts.GET("/tasks", h.Alert.Tasks)
	alerts.GET("/stream", h.Stream.Stream)
	alerts.POST("/:id/ack", h.Alert.Acknowledge)
	alerts.DELETE("/:id", h.Alert.Delete)
}
