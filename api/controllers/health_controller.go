/*
 * @module api/controllers/health_controller
 * @description 健康检查控制器，提供服务状态和各模型加载标志
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 模型加载失败不影响服务在线状态，status始终为online；各模型标志独立上报
 * @dependencies net/http, github.com/go-chi/render
 * @refs service/inference/registry.go
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"slopeml-service/service/inference"
)

const (
	serviceName    = "slopeml-service"
	serviceVersion = "1.0.0"
)

// HealthController 健康检查控制器
type HealthController struct {
	registry *inference.Registry
}

// NewHealthController 创建健康检查控制器实例
func NewHealthController(registry *inference.Registry) *HealthController {
	return &HealthController{registry: registry}
}

// StatusResponse 服务状态响应结构
type StatusResponse struct {
	Status       string          `json:"status" example:"online"`
	Service      string          `json:"service" example:"slopeml-service"`
	Version      string          `json:"version" example:"1.0.0"`
	ModelsLoaded map[string]bool `json:"models_loaded"`
}

// HealthResponse 健康检查响应结构
type HealthResponse struct {
	Status    string    `json:"status" example:"ok"`
	Timestamp time.Time `json:"timestamp" example:"2024-01-01T00:00:00Z"`
	Version   string    `json:"version" example:"1.0.0"`
	Service   string    `json:"service" example:"slopeml-service"`
}

// Root 服务状态
// @Summary 服务状态
// @Description 返回服务在线状态和各模型的加载标志，模型加载失败不影响服务在线
// @Tags 系统
// @Produce json
// @Success 200 {object} StatusResponse
// @Router / [get]
func (c *HealthController) Root(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, StatusResponse{
		Status:       "online",
		Service:      serviceName,
		Version:      serviceVersion,
		ModelsLoaded: c.registry.LoadedFlags(),
	})
}

// Health 健康检查
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Service:   serviceName,
	})
}

// Ready 就绪检查
// @Summary 就绪检查
// @Description 检查服务是否就绪
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /ready [get]
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Service:   serviceName,
	})
}
