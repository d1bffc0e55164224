/*
 * @module api/controllers/predict_controller
 * @description 风险预测控制器，编排特征组装、表格模型评分、阈值分级和重要度计算
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 请求校验 -> 特征向量组装 -> 模型评分 -> 阈值分级 -> 重要度排序 -> 响应返回
 * @rules 缺失字段默认0.0，非数值字段返回400；模型未加载返回503；模型调用异常返回500并附带底层信息
 * @dependencies slopeml-service/service/feature, slopeml-service/service/risk, github.com/go-chi/render
 * @refs service/inference/tabular_client.go, service/alert/publisher.go
 */

package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"slopeml-service/service/alert"
	"slopeml-service/service/feature"
	"slopeml-service/service/history"
	"slopeml-service/service/inference"
	"slopeml-service/service/models"
	"slopeml-service/service/monitoring"
	"slopeml-service/service/risk"
	"slopeml-service/service/utils"
)

// PredictController 风险预测控制器
type PredictController struct {
	registry  *inference.Registry
	publisher *alert.Publisher
	history   *history.Store
}

// NewPredictController 创建风险预测控制器实例
func NewPredictController(registry *inference.Registry, publisher *alert.Publisher, store *history.Store) *PredictController {
	return &PredictController{
		registry:  registry,
		publisher: publisher,
		history:   store,
	}
}

// PredictRequest 风险预测请求结构
// sensorData为宽松类型映射，数值校验在控制器中显式完成
type PredictRequest struct {
	SlopeID    string                 `json:"slopeId" example:"slope_1"`
	SensorData map[string]interface{} `json:"sensorData"`
}

// PredictResult 风险预测响应数据
type PredictResult struct {
	SlopeID        string               `json:"slopeId"`
	RiskScore      float64              `json:"risk_score"`
	RiskLevel      string               `json:"risk_level"`
	FeaturesUsed   map[string]float64   `json:"features_used"`
	Explainability PredictExplainResult `json:"explainability"`
}

// PredictExplainResult 预测可解释性数据
type PredictExplainResult struct {
	TopFeatures models.FeatureVector `json:"top_features"`
}

// Predict 风险预测
// @Summary 表格风险预测
// @Description 基于传感器读数构建固定顺序的特征向量，经表格模型评分后按阈值分级
// @Tags 机器学习
// @Accept json
// @Produce json
// @Param request body PredictRequest true "预测请求"
// @Success 200 {object} APIResponse{data=PredictResult}
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /predict [post]
func (c *PredictController) Predict(w http.ResponseWriter, r *http.Request) {
	tabular := c.registry.Tabular()
	if tabular == nil {
		ServiceUnavailable(w, r, "XGBoost model not loaded", "Model file not found or failed to load")
		return
	}

	var req PredictRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		BadRequest(w, r, fmt.Sprintf("invalid request body: %s", err.Error()))
		return
	}

	sensorData, err := utils.ToFloatMap(req.SensorData)
	if err != nil {
		BadRequest(w, r, err.Error())
		return
	}

	// 按训练顺序组装特征向量，缺失字段默认0.0
	vector := models.BuildFeatureVector(models.SensorReading(sensorData))

	started := time.Now()
	score, err := tabular.Score(r.Context(), vector.Row())
	monitoring.ObserveInference(monitoring.ModelTabular, started, err)
	if err != nil {
		InternalError(w, r, fmt.Sprintf("Prediction failed: %s", err.Error()))
		return
	}

	level := risk.ClassifySensor(score)
	c.history.Record(req.SlopeID, "predict", score, level)
	if alert.ShouldAlert(level) {
		c.publisher.PublishRiskAlert(r.Context(), req.SlopeID, "predict", level, score, "tabular risk prediction")
	}

	render.JSON(w, r, SuccessResponse(PredictResult{
		SlopeID:      req.SlopeID,
		RiskScore:    utils.Round4(score),
		RiskLevel:    level,
		FeaturesUsed: vector.AsMap(),
		Explainability: PredictExplainResult{
			TopFeatures: feature.TopImportance(vector, feature.TopFeatureCount),
		},
	}))
}

// PredictionListResult 预测历史响应数据
type PredictionListResult struct {
	Predictions []models.PredictionRecord `json:"predictions"`
}

// ListPredictions 最近预测列表
// @Summary 最近预测列表
// @Description 返回内存中保留的最近预测摘要，新记录在前，进程重启后清空
// @Tags 机器学习
// @Produce json
// @Success 200 {object} APIResponse{data=PredictionListResult}
// @Router /predictions [get]
func (c *PredictController) ListPredictions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, SuccessResponse(PredictionListResult{
		Predictions: c.history.Recent(),
	}))
}
