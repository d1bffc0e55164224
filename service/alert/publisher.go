/*
 * @module service/alert/publisher
 * @description 风险告警发布器，将高风险预测事件发布到Kafka供告警子系统消费
 * @architecture 适配器模式 - 封装第三方Kafka客户端，提供统一的发布接口
 * @dependencies github.com/segmentio/kafka-go, encoding/json
 * @stateFlow 告警构建 -> 消息序列化 -> Kafka发布
 * @rules 告警发布是尽力而为的旁路操作，发布失败只记录日志，不影响预测请求的响应
 * @refs service/models/prediction.go, api/controllers/predict_controller.go
 */

package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"slopeml-service/service/models"
)

// 触发告警的风险等级
var alertLevels = map[string]bool{
	"imminent": true,
	"critical": true,
}

// Publisher 风险告警发布器
type Publisher struct {
	writer *kafka.Writer
	topic  string
}

// NewPublisher 创建告警发布器，brokers为空时返回nil表示告警通道未启用
func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 {
		return nil
	}
	if topic == "" {
		topic = "slope-risk-alerts"
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 100 * time.Millisecond,
	}
	return &Publisher{writer: writer, topic: topic}
}

// ShouldAlert 判断风险等级是否需要发布告警
func ShouldAlert(level string) bool {
	return alertLevels[level]
}

// PublishRiskAlert 构建并发布风险告警事件
func (p *Publisher) PublishRiskAlert(ctx context.Context, slopeID, source, level string, score float64, message string) {
	if p == nil {
		return
	}

	event := models.RiskAlert{
		ID:        uuid.New().String(),
		SlopeID:   slopeID,
		Source:    source,
		RiskLevel: level,
		RiskScore: score,
		Message:   message,
		CreatedAt: time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("序列化告警事件失败", "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.ID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("发布风险告警失败", "topic", p.topic, "error", fmt.Errorf("写入Kafka失败: %w", err))
		return
	}
	slog.Info("风险告警已发布", "topic", p.topic, "slopeId", slopeID, "level", level)
}

// Close 关闭Kafka写入器
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
