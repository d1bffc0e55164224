/*
 * @module service/alert/publisher_test
 * @description 风险告警发布器单元测试
 * @architecture 测试层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 等级判定与nil安全行为验证
 * @rules 不依赖真实Kafka代理，发布路径只验证未启用时的空操作
 * @dependencies testify
 * @refs service/alert/publisher.go
 */

package alert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldAlert(t *testing.T) {
	// ===== 仅imminent和critical触发告警 =====
	assert.True(t, ShouldAlert("imminent"))
	assert.True(t, ShouldAlert("critical"))

	assert.False(t, ShouldAlert("high"))
	assert.False(t, ShouldAlert("medium"))
	assert.False(t, ShouldAlert("low"))
	assert.False(t, ShouldAlert(""))
}

func TestNewPublisher_DisabledWithoutBrokers(t *testing.T) {
	// ===== 未配置broker时通道未启用 =====
	assert.Nil(t, NewPublisher(nil, ""))
	assert.Nil(t, NewPublisher([]string{}, "slope-risk-alerts"))
}

func TestPublisher_NilSafe(t *testing.T) {
	// ===== 未启用的发布器调用为空操作 =====
	var publisher *Publisher
	publisher.PublishRiskAlert(context.Background(), "slope_1", "predict", "imminent", 0.9, "test")
	assert.NoError(t, publisher.Close())
}
