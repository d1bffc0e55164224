/*
 * @module service/models/assessment
 * @description 融合引擎风险评估模型，定义融合引擎返回的综合评估结构和空间风险网格
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 融合引擎查询 -> 评估解析 -> 子分量提取
 * @rules 评估结构与融合引擎的wire格式保持一致，未知字段透传
 * @dependencies encoding/json
 * @refs service/inference/fusion_client.go, api/controllers/explain_controller.go
 */

package models

import "encoding/json"

// SensorAggregates 融合引擎汇总的传感器极值
type SensorAggregates struct {
	MaxDispMM  float64 `json:"max_disp_mm"`  // 最大位移（毫米）
	MaxPoreKPa float64 `json:"max_pore_kpa"` // 最大孔隙水压（千帕）
	MaxVibG    float64 `json:"max_vib_g"`    // 最大振动（g）
}

// VisualSource 视觉通道的风险分量
type VisualSource struct {
	RiskScore float64 `json:"risk_score"`
}

// AssessmentSources 融合评估的各来源分量
type AssessmentSources struct {
	Sensors SensorAggregates `json:"sensors"`
	Visual  VisualSource     `json:"visual"`
}

// RiskAssessment 融合引擎的当前综合风险评估
// Raw保留完整原始文档，/risk/current按原样透传
type RiskAssessment struct {
	EnhancedRisk  float64           `json:"enhanced_risk"`
	Sources       AssessmentSources `json:"sources"`
	WeatherImpact float64           `json:"weather_impact"`
	Raw           json.RawMessage   `json:"-"`
}

// RiskGrid 融合引擎的空间风险网格，结构不透明，按原样透传
type RiskGrid = json.RawMessage
