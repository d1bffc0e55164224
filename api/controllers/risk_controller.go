/*
 * @module api/controllers/risk_controller
 * @description 风险透传控制器，将融合引擎的综合评估和空间风险网格按原样透传给调用方
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 引擎可用性检查 -> 评估/网格获取 -> 原样透传
 * @rules 评估文档不做信封封装，按融合引擎的原始格式输出；网格包装在grid字段中
 * @dependencies github.com/go-chi/render
 * @refs service/inference/fusion_client.go, service/cache/assessment_cache.go
 */

package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"slopeml-service/service/cache"
	"slopeml-service/service/inference"
	"slopeml-service/service/models"
	"slopeml-service/service/monitoring"
)

// RiskController 风险透传控制器
type RiskController struct {
	registry *inference.Registry
	cache    *cache.AssessmentCache
}

// NewRiskController 创建风险透传控制器实例
func NewRiskController(registry *inference.Registry, assessmentCache *cache.AssessmentCache) *RiskController {
	return &RiskController{
		registry: registry,
		cache:    assessmentCache,
	}
}

// RiskGridResult 风险网格响应数据
type RiskGridResult struct {
	Grid models.RiskGrid `json:"grid"`
}

// Current 当前综合风险评估
// @Summary 当前综合风险评估
// @Description 按原样透传融合引擎的当前综合风险评估文档
// @Tags 风险
// @Produce json
// @Success 200 {object} object
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /risk/current [get]
func (c *RiskController) Current(w http.ResponseWriter, r *http.Request) {
	fusion := c.registry.Fusion()
	if fusion == nil {
		ServiceUnavailable(w, r, "Fusion engine not available", "")
		return
	}

	assessment, err := fetchAssessment(r.Context(), fusion, c.cache)
	if err != nil {
		InternalError(w, r, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(assessment.Raw)
}

// Grid 空间风险网格
// @Summary 空间风险网格
// @Description 返回融合引擎的空间风险网格，用于热力图可视化
// @Tags 风险
// @Produce json
// @Success 200 {object} RiskGridResult
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /risk/grid [get]
func (c *RiskController) Grid(w http.ResponseWriter, r *http.Request) {
	fusion := c.registry.Fusion()
	if fusion == nil {
		ServiceUnavailable(w, r, "Fusion engine not available", "")
		return
	}

	started := time.Now()
	grid, err := fusion.RiskGrid(r.Context())
	monitoring.ObserveInference(monitoring.ModelFusion, started, err)
	if err != nil {
		InternalError(w, r, err.Error())
		return
	}

	render.JSON(w, r, RiskGridResult{Grid: grid})
}
