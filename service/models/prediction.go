/*
 * @module service/models/prediction
 * @description 预测结果模型，定义风险预测记录、裂缝评估结果和风险告警事件结构
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 模型评分 -> 阈值分级 -> 记录构建 -> 历史缓存/告警发布
 * @rules 预测记录仅保留在内存环形缓冲中，不做持久化
 * @dependencies time
 * @refs service/history/store.go, service/alert/publisher.go
 */

package models

import "time"

// PredictionRecord 单次风险预测的摘要记录
type PredictionRecord struct {
	ID        string    `json:"id"`
	SlopeID   string    `json:"slopeId"`
	Kind      string    `json:"kind"` // predict, detect
	RiskScore float64   `json:"risk_score"`
	RiskLevel string    `json:"risk_level"`
	CreatedAt time.Time `json:"created_at"`
}

// CrackRiskAssessment 裂缝检测的风险评估结果
type CrackRiskAssessment struct {
	Level       string  `json:"level"`
	Action      string  `json:"action"`
	Probability float64 `json:"probability"`
}

// RiskAlert 高风险告警事件，发布到Kafka供告警子系统消费
type RiskAlert struct {
	ID        string    `json:"id"`
	SlopeID   string    `json:"slopeId,omitempty"`
	Source    string    `json:"source"` // predict, detect
	RiskLevel string    `json:"risk_level"`
	RiskScore float64   `json:"risk_score"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
