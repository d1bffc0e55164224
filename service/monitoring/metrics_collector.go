/*
 * @module service/monitoring/metrics_collector
 * @description 指标收集器，记录模型推理的调用量和耗时，通过/metrics端点暴露
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 推理调用 -> 结果观测 -> 指标聚合 -> Prometheus抓取
 * @rules 指标注册在进程启动时完成一次，观测操作并发安全
 * @dependencies github.com/prometheus/client_golang/prometheus
 * @refs main.go, api/controllers/
 */

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 模型标签取值
const (
	ModelTabular = "tabular"
	ModelVision  = "vision"
	ModelFusion  = "fusion"
)

var (
	inferenceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slopeml_inference_requests_total",
		Help: "模型推理调用总数，按模型和结果状态划分",
	}, []string{"model", "status"})

	inferenceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "slopeml_inference_duration_seconds",
		Help:    "模型推理调用耗时分布",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	modelLoaded = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "slopeml_model_loaded",
		Help: "模型加载状态，1为已加载",
	}, []string{"model"})
)

// ObserveInference 记录一次模型推理的结果和耗时
func ObserveInference(model string, started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	inferenceTotal.WithLabelValues(model, status).Inc()
	inferenceDuration.WithLabelValues(model).Observe(time.Since(started).Seconds())
}

// SetModelLoaded 更新模型加载状态指标
func SetModelLoaded(flags map[string]bool) {
	for model, loaded := range flags {
		value := 0.0
		if loaded {
			value = 1.0
		}
		modelLoaded.WithLabelValues(model).Set(value)
	}
}
