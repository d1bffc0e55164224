/*
 * @module service/cache/assessment_cache
 * @description 评估缓存，使用Redis对融合引擎的综合评估做短TTL缓存，降低透传端点对融合引擎的压力
 * @architecture 适配器模式 - 封装第三方Redis客户端，提供统一的缓存接口
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 缓存查询 -> 命中返回/未命中回源 -> 结果写回
 * @rules 缓存是旁路优化，Redis不可用或未配置时所有读取直接回源；缓存失败只记录日志
 * @dependencies github.com/go-redis/redis/v8, encoding/json
 * @refs service/inference/fusion_client.go, api/controllers/risk_controller.go
 */

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"slopeml-service/service/models"
)

const assessmentKey = "slopeml:assessment:current"

// AssessmentCache 融合评估缓存
type AssessmentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAssessmentCache 创建评估缓存，address为空时返回nil表示缓存未启用
func NewAssessmentCache(address string, ttl time.Duration) *AssessmentCache {
	if address == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 15 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        address,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
	})
	return &AssessmentCache{client: client, ttl: ttl}
}

// Get 查询缓存的评估，未命中或缓存未启用时返回nil
func (c *AssessmentCache) Get(ctx context.Context) *models.RiskAssessment {
	if c == nil {
		return nil
	}

	raw, err := c.client.Get(ctx, assessmentKey).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		slog.Warn("查询评估缓存失败", "error", err)
		return nil
	}

	var assessment models.RiskAssessment
	if err := json.Unmarshal(raw, &assessment); err != nil {
		slog.Warn("解析缓存评估失败", "error", err)
		return nil
	}
	assessment.Raw = json.RawMessage(raw)
	return &assessment
}

// Set 写回评估文档，失败只记录日志
func (c *AssessmentCache) Set(ctx context.Context, assessment *models.RiskAssessment) {
	if c == nil || assessment == nil || len(assessment.Raw) == 0 {
		return
	}
	if err := c.client.Set(ctx, assessmentKey, []byte(assessment.Raw), c.ttl).Err(); err != nil {
		slog.Warn("写入评估缓存失败", "error", err)
	}
}

// Close 关闭Redis连接
func (c *AssessmentCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
