/*
 * @module api/controllers/telemetry_controller
 * @description 遥测快照控制器，查询MQTT通道维护的边坡最新传感器读数
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 通道可用性检查 -> 快照查询 -> 响应返回
 * @rules 遥测通道未启用返回503；无快照返回404；快照仅供查询，不影响/predict的缺省填零语义
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/render
 * @refs service/telemetry/mqtt_listener.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"slopeml-service/service/telemetry"
)

// TelemetryController 遥测快照控制器
type TelemetryController struct {
	listener *telemetry.Listener
}

// NewTelemetryController 创建遥测快照控制器实例
func NewTelemetryController(listener *telemetry.Listener) *TelemetryController {
	return &TelemetryController{listener: listener}
}

// Latest 最新遥测快照
// @Summary 最新遥测快照
// @Description 返回指定边坡通过MQTT上报的最新传感器读数快照
// @Tags 遥测
// @Produce json
// @Param slopeId path string true "边坡ID"
// @Success 200 {object} APIResponse{data=telemetry.ReadingSnapshot}
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /telemetry/{slopeId}/latest [get]
func (c *TelemetryController) Latest(w http.ResponseWriter, r *http.Request) {
	if c.listener == nil {
		ServiceUnavailable(w, r, "Telemetry channel not enabled", "MQTT broker not configured")
		return
	}

	slopeID := chi.URLParam(r, "slopeId")
	snapshot := c.listener.Latest(slopeID)
	if snapshot == nil {
		writeError(w, r, http.StatusNotFound, "No telemetry for slope", slopeID)
		return
	}

	render.JSON(w, r, SuccessResponse(snapshot))
}
