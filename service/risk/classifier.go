/*
 * @module service/risk/classifier
 * @description 风险阈值分级器，将连续风险评分按固定阈值表映射为离散风险等级
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 评分输入 -> 阈值表自高向低匹配 -> 首个命中生效 -> 默认最低等级
 * @rules 所有阈值边界为严格大于，恰好等于边界的评分落入较低档位，该语义不可更改
 * @dependencies slopeml-service/service/models
 * @refs service/feature/normalizer.go, api/controllers/predict_controller.go
 */

package risk

import (
	"slopeml-service/service/models"
	"slopeml-service/service/utils"
)

// 传感器通道风险等级
const (
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelImminent = "imminent"
	LevelCritical = "critical"
)

// 重要度档位
const (
	BucketLow    = "low"
	BucketMedium = "medium"
	BucketHigh   = "high"
)

// threshold 阈值表项，下界为开区间
type threshold struct {
	lowerBound float64
	level      string
}

// 传感器通道阈值表，自高向低匹配
var sensorThresholds = []threshold{
	{0.75, LevelImminent},
	{0.60, LevelHigh},
	{0.35, LevelMedium},
}

// 图像通道阈值表
var imageThresholds = []threshold{
	{0.80, LevelCritical},
	{0.60, LevelHigh},
	{0.40, LevelMedium},
}

// 重要度档位阈值表
var importanceThresholds = []threshold{
	{0.70, BucketHigh},
	{0.40, BucketMedium},
}

// 图像通道各等级的建议措施
var crackActions = map[string]string{
	LevelCritical: "Immediate inspection required",
	LevelHigh:     "Schedule inspection soon",
	LevelMedium:   "Monitor closely",
	LevelLow:      "No immediate action needed",
}

// classify 在阈值表中自高向低匹配，首个严格大于下界的档位生效
func classify(score float64, table []threshold, fallback string) string {
	for _, t := range table {
		if score > t.lowerBound {
			return t.level
		}
	}
	return fallback
}

// ClassifySensor 传感器通道评分分级
func ClassifySensor(score float64) string {
	return classify(score, sensorThresholds, LevelLow)
}

// ClassifyImage 图像通道裂缝概率分级
func ClassifyImage(probability float64) string {
	return classify(probability, imageThresholds, LevelLow)
}

// ClassifyImportance 重要度评分档位分级
func ClassifyImportance(value float64) string {
	return classify(value, importanceThresholds, BucketLow)
}

// AssessCrackRisk 根据裂缝概率生成风险评估结果，附带建议措施
func AssessCrackRisk(probability float64) models.CrackRiskAssessment {
	level := ClassifyImage(probability)
	return models.CrackRiskAssessment{
		Level:       level,
		Action:      crackActions[level],
		Probability: utils.Round4(probability),
	}
}
