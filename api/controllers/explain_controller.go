/*
 * @module api/controllers/explain_controller
 * @description 预测解释控制器，从融合评估提取各信号分量并生成SHAP风格的重要度与解释文本
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 评估获取 -> 分量归一化 -> 档位分级 -> 解释文本生成 -> 响应返回
 * @rules 此处的SHAP值是简化的逐信号归一化重要度，不是真正的Shapley归因；visual与weather分量不做归一化
 * @dependencies slopeml-service/service/explain, slopeml-service/service/risk, github.com/go-chi/render
 * @refs service/inference/fusion_client.go, service/explain/generator.go
 */

package controllers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"slopeml-service/service/cache"
	"slopeml-service/service/explain"
	"slopeml-service/service/feature"
	"slopeml-service/service/inference"
	"slopeml-service/service/models"
	"slopeml-service/service/risk"
)

// ExplainController 预测解释控制器
type ExplainController struct {
	registry *inference.Registry
	cache    *cache.AssessmentCache
}

// NewExplainController 创建预测解释控制器实例
func NewExplainController(registry *inference.Registry, assessmentCache *cache.AssessmentCache) *ExplainController {
	return &ExplainController{
		registry: registry,
		cache:    assessmentCache,
	}
}

// ExplainResult 预测解释响应数据
type ExplainResult struct {
	PredictionID      string             `json:"predictionId"`
	SlopeID           string             `json:"slopeId,omitempty"`
	ShapValues        map[string]float64 `json:"shap_values"`
	FeatureImportance map[string]string  `json:"feature_importance"`
	Explanation       string             `json:"explanation"`
}

// Explain 预测解释
// @Summary 预测解释
// @Description 基于融合引擎的当前评估计算各信号的简化SHAP重要度、档位和可读解释文本
// @Tags 机器学习
// @Produce json
// @Param predictionId path string true "预测ID"
// @Param slopeId query string false "边坡ID"
// @Success 200 {object} APIResponse{data=ExplainResult}
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /explain/{predictionId} [get]
func (c *ExplainController) Explain(w http.ResponseWriter, r *http.Request) {
	fusion := c.registry.Fusion()
	if fusion == nil {
		ServiceUnavailable(w, r, "Fusion engine not available", "")
		return
	}

	assessment, err := fetchAssessment(r.Context(), fusion, c.cache)
	if err != nil {
		InternalError(w, r, fmt.Sprintf("Explanation failed: %s", err.Error()))
		return
	}

	shapValues := shapFromAssessment(assessment)
	buckets := make(map[string]string, len(shapValues))
	for signal, value := range shapValues {
		buckets[signal] = risk.ClassifyImportance(value)
	}

	render.JSON(w, r, SuccessResponse(ExplainResult{
		PredictionID:      chi.URLParam(r, "predictionId"),
		SlopeID:           r.URL.Query().Get("slopeId"),
		ShapValues:        shapValues,
		FeatureImportance: buckets,
		Explanation:       explain.Generate(shapValues, buckets),
	}))
}

// shapFromAssessment 从融合评估提取各信号的简化SHAP重要度
// 传感器分量按固定除数归一化并截断到1.0，视觉与天气分量原样透传
func shapFromAssessment(assessment *models.RiskAssessment) map[string]float64 {
	sensors := assessment.Sources.Sensors
	return map[string]float64{
		"displacement":  feature.Normalize("displacement", sensors.MaxDispMM),
		"pore_pressure": feature.Normalize("pore_pressure", sensors.MaxPoreKPa),
		"vibration":     feature.Normalize("vibration", sensors.MaxVibG),
		"visual_crack":  assessment.Sources.Visual.RiskScore,
		"weather":       assessment.WeatherImpact,
	}
}
