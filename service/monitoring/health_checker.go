/*
 * @module service/monitoring/health_checker
 * @description 模型健康巡检器，周期性重新探测外部模型运行时并刷新注册表的可用标志
 * @architecture 调度器模式 - 基于cron的周期任务
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 调度启动 -> 周期探测 -> 可用标志刷新 -> 指标更新
 * @rules 巡检只刷新可用标志，不改变启动时一次性加载的语义；探测超时不得拖垮调度周期
 * @dependencies github.com/robfig/cron/v3, github.com/prometheus/common/model
 * @refs service/inference/registry.go, service/monitoring/metrics_collector.go
 */

package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/common/model"
	"github.com/robfig/cron/v3"

	"slopeml-service/service/inference"
)

const defaultCheckInterval = time.Minute

// HealthChecker 模型健康巡检器
type HealthChecker struct {
	registry *inference.Registry
	cron     *cron.Cron
	interval time.Duration
}

// NewHealthChecker 创建巡检器，interval为Prometheus风格的时长字符串（如"1m"、"30s"）
func NewHealthChecker(registry *inference.Registry, interval string) *HealthChecker {
	checkInterval := defaultCheckInterval
	if interval != "" {
		if parsed, err := model.ParseDuration(interval); err != nil {
			slog.Warn("健康巡检间隔配置非法，使用默认值", "interval", interval, "error", err)
		} else {
			checkInterval = time.Duration(parsed)
		}
	}

	return &HealthChecker{
		registry: registry,
		cron:     cron.New(),
		interval: checkInterval,
	}
}

// Start 启动周期巡检
func (hc *HealthChecker) Start() error {
	spec := fmt.Sprintf("@every %s", hc.interval)
	if _, err := hc.cron.AddFunc(spec, hc.check); err != nil {
		return fmt.Errorf("注册健康巡检任务失败: %w", err)
	}
	hc.cron.Start()
	slog.Info("模型健康巡检已启动", "interval", hc.interval.String())
	return nil
}

// Stop 停止巡检调度
func (hc *HealthChecker) Stop() {
	hc.cron.Stop()
}

// check 执行一轮探测并刷新状态指标
func (hc *HealthChecker) check() {
	ctx, cancel := context.WithTimeout(context.Background(), hc.interval)
	defer cancel()

	hc.registry.RefreshHealth(ctx)
	SetModelLoaded(hc.registry.LoadedFlags())
}
