/*
 * @module api/controllers/forecast_controller
 * @description 风险预报控制器，基于融合引擎的当前评估合成未来72小时风险序列
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 请求解析 -> 基线评估获取 -> 趋势外推 -> 响应返回
 * @rules 预报为占位趋势模型（线性趋势+高斯噪声+[0,1]截断），非训练得到的时序模型，该局限按原样保留
 * @dependencies slopeml-service/service/forecast, github.com/go-chi/render
 * @refs service/inference/fusion_client.go, service/cache/assessment_cache.go
 */

package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"slopeml-service/service/cache"
	"slopeml-service/service/forecast"
	"slopeml-service/service/inference"
	"slopeml-service/service/models"
	"slopeml-service/service/monitoring"
	"slopeml-service/service/utils"
)

// ForecastController 风险预报控制器
type ForecastController struct {
	registry   *inference.Registry
	forecaster *forecast.Forecaster
	cache      *cache.AssessmentCache
}

// NewForecastController 创建风险预报控制器实例
func NewForecastController(registry *inference.Registry, forecaster *forecast.Forecaster, assessmentCache *cache.AssessmentCache) *ForecastController {
	return &ForecastController{
		registry:   registry,
		forecaster: forecaster,
		cache:      assessmentCache,
	}
}

// ForecastRequest 风险预报请求结构
type ForecastRequest struct {
	SlopeID string `json:"slopeId" example:"slope_1"`
}

// ForecastResult 风险预报响应数据
type ForecastResult struct {
	SlopeID           string          `json:"slopeId"`
	Timestamps        []string        `json:"timestamps"`
	Forecast          []float64       `json:"forecast"`
	BaseRisk          float64         `json:"base_risk"`
	CurrentAssessment json.RawMessage `json:"current_assessment"`
}

// Forecast 72小时风险预报
// @Summary 72小时风险预报
// @Description 以融合引擎的当前综合风险为基线，合成+12h到+72h的风险序列（占位趋势模型）
// @Tags 机器学习
// @Accept json
// @Produce json
// @Param request body ForecastRequest true "预报请求"
// @Success 200 {object} APIResponse{data=ForecastResult}
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /forecast [post]
func (c *ForecastController) Forecast(w http.ResponseWriter, r *http.Request) {
	fusion := c.registry.Fusion()
	if fusion == nil {
		ServiceUnavailable(w, r, "Fusion engine not available", "Fusion engine not initialized")
		return
	}

	var req ForecastRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		BadRequest(w, r, fmt.Sprintf("invalid request body: %s", err.Error()))
		return
	}

	assessment, err := fetchAssessment(r.Context(), fusion, c.cache)
	if err != nil {
		InternalError(w, r, fmt.Sprintf("Forecast failed: %s", err.Error()))
		return
	}

	values := c.forecaster.Project(assessment.EnhancedRisk)

	render.JSON(w, r, SuccessResponse(ForecastResult{
		SlopeID:           req.SlopeID,
		Timestamps:        forecast.Timestamps,
		Forecast:          values,
		BaseRisk:          utils.Round4(assessment.EnhancedRisk),
		CurrentAssessment: assessment.Raw,
	}))
}

// fetchAssessment 获取融合评估，优先命中缓存，回源后写回
func fetchAssessment(ctx context.Context, fusion *inference.FusionClient, assessmentCache *cache.AssessmentCache) (*models.RiskAssessment, error) {
	if cached := assessmentCache.Get(ctx); cached != nil {
		return cached, nil
	}

	started := time.Now()
	assessment, err := fusion.CurrentRiskAssessment(ctx)
	monitoring.ObserveInference(monitoring.ModelFusion, started, err)
	if err != nil {
		return nil, err
	}

	assessmentCache.Set(ctx, assessment)
	return assessment, nil
}
