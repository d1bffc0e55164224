/*
 * @module service/inference/registry
 * @description 模型注册表，进程启动时独立加载三个外部模型协作方并维护其可用状态
 * @architecture 注册表模式 - 进程级单例，启动后只读（可用标志除外）
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 客户端构建 -> 独立健康探测 -> 可用标志设置 -> 请求期只读访问
 * @rules 任一模型加载失败不阻塞其他模型和进程启动；各端点独立上报不可用状态；可用标志通过原子操作刷新
 * @dependencies context, sync/atomic, log/slog
 * @refs service/init.go, service/monitoring/health_checker.go
 */

package inference

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Registry 模型注册表
type Registry struct {
	tabular *TabularClient
	vision  *VisionClient
	fusion  *FusionClient

	tabularUp atomic.Bool
	visionUp  atomic.Bool
	fusionUp  atomic.Bool
}

// NewRegistry 根据运行时地址构建注册表，空地址表示该模型未配置
func NewRegistry(tabularURL, visionURL, fusionURL string) *Registry {
	r := &Registry{}
	if tabularURL != "" {
		r.tabular = NewTabularClient(tabularURL)
	}
	if visionURL != "" {
		r.vision = NewVisionClient(visionURL)
	}
	if fusionURL != "" {
		r.fusion = NewFusionClient(fusionURL)
	}
	return r
}

// Load 启动时独立探测各模型运行时，失败只记录日志，不阻塞进程
func (r *Registry) Load(ctx context.Context) {
	slog.Info("开始加载模型运行时")

	if r.tabular == nil {
		slog.Warn("表格模型未配置", "env", "TABULAR_MODEL_URL")
	} else if err := r.tabular.Health(ctx); err != nil {
		slog.Warn("表格模型加载失败", "error", err)
	} else {
		r.tabularUp.Store(true)
		slog.Info("表格模型加载成功")
	}

	if r.vision == nil {
		slog.Warn("视觉模型未配置", "env", "VISION_MODEL_URL")
	} else if err := r.vision.Health(ctx); err != nil {
		slog.Warn("视觉模型加载失败", "error", err)
	} else {
		r.visionUp.Store(true)
		slog.Info("视觉模型加载成功")
	}

	if r.fusion == nil {
		slog.Warn("融合引擎未配置", "env", "FUSION_ENGINE_URL")
	} else if err := r.fusion.Health(ctx); err != nil {
		slog.Warn("融合引擎加载失败", "error", err)
	} else {
		r.fusionUp.Store(true)
		slog.Info("融合引擎加载成功")
	}
}

// RefreshHealth 重新探测各运行时并刷新可用标志，由监控调度器周期调用
func (r *Registry) RefreshHealth(ctx context.Context) {
	if r.tabular != nil {
		r.tabularUp.Store(r.tabular.Health(ctx) == nil)
	}
	if r.vision != nil {
		r.visionUp.Store(r.vision.Health(ctx) == nil)
	}
	if r.fusion != nil {
		r.fusionUp.Store(r.fusion.Health(ctx) == nil)
	}
}

// Tabular 返回表格模型客户端，未加载时返回nil
func (r *Registry) Tabular() *TabularClient {
	if !r.tabularUp.Load() {
		return nil
	}
	return r.tabular
}

// Vision 返回视觉模型客户端，未加载时返回nil
func (r *Registry) Vision() *VisionClient {
	if !r.visionUp.Load() {
		return nil
	}
	return r.vision
}

// Fusion 返回融合引擎客户端，未加载时返回nil
func (r *Registry) Fusion() *FusionClient {
	if !r.fusionUp.Load() {
		return nil
	}
	return r.fusion
}

// LoadedFlags 返回各模型的加载状态，wire键名与原服务保持一致
func (r *Registry) LoadedFlags() map[string]bool {
	return map[string]bool{
		"vision": r.visionUp.Load(),
		"xgb":    r.tabularUp.Load(),
		"fusion": r.fusionUp.Load(),
	}
}
