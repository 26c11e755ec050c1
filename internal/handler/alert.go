// 서버 측 알림 이력을 다루는 핸들러
//
// 요청 흐름:
//  1. 대시보드가 POST /api/alerts/evaluate로 현재 지표를 전송
//  2. service 레이어가 보관 중인 이력 기준으로 쿨다운을 적용하여 새 알림 생성
//  3. 새 알림은 저장 후 /api/alerts/stream 구독자에게 전파
//
// 조회/확인(ack)/삭제는 UI의 알림 패널에서 호출

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bi-data-explainer/backend/internal/db"
	"github.com/bi-data-explainer/backend/internal/model"
	"github.com/bi-data-explainer/backend/internal/service"
)

// Alert 핸들러 구조체 정의
type AlertHandler struct {
	alertService *service.AlertService
}

// Alert 핸들러 객체 생성
func NewAlertHandler(alertService *service.AlertService) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// Evaluate godoc
// @Summary Evaluate metrics against the alert rules
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body model.AlertEvaluateRequest true "Current metrics"
// @Success 200 {object} model.AlertEvaluateResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/alerts/evaluate [post]
func (h *AlertHandler) Evaluate(c *gin.Context) {
	var req model.AlertEvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	alerts, err := h.alertService.Evaluate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidScenario) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.AlertEvaluateResponse{Success: true, Alerts: alerts})
}

// List godoc
// @Summary List retained alerts
// @Tags alerts
// @Produce json
// @Success 200 {object} model.AlertListResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	alerts, err := h.alertService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.AlertListResponse{Success: true, Alerts: alerts})
}

// Acknowledge godoc
// @Summary Acknowledge an alert
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} model.AlertAckResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/alerts/{id}/ack [post]
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	id := c.Param("id")

	if err := h.alertService.Acknowledge(c.Request.Context(), id); err != nil {
		writeAlertError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.AlertAckResponse{Success: true, ID: id, Affected: 1})
}

// AcknowledgeAll godoc
// @Summary Acknowledge every alert
// @Tags alerts
// @Produce json
// @Success 200 {object} model.AlertAckResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/alerts/ack-all [post]
func (h *AlertHandler) AcknowledgeAll(c *gin.Context) {
	affected, err := h.alertService.AcknowledgeAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.AlertAckResponse{Success: true, Affected: affected})
}

// Delete godoc
// @Summary Dismiss an alert
// @Tags alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} model.AlertAckResponse
// @Failure 404 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/alerts/{id} [delete]
func (h *AlertHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.alertService.Delete(c.Request.Context(), id); err != nil {
		writeAlertError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.AlertAckResponse{Success: true, ID: id, Affected: 1})
}

// Tasks godoc
// @Summary List follow-up task references for unacknowledged alerts
// @Tags alerts
// @Produce json
// @Success 200 {object} model.AlertTaskListResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/alerts/tasks [get]
func (h *AlertHandler) Tasks(c *gin.Context) {
	refs, err := h.alertService.TaskRefs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, model.AlertTaskListResponse{Success: true, Tasks: refs})
}

func writeAlertError(c *gin.Context, err error) {
	if errors.Is(err, db.ErrAlertNotFound) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Success: false, Error: err.Error()})
}
