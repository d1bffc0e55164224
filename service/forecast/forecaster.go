/*
 * @module service/forecast/forecaster
 * @description 风险趋势外推器，基于当前基线风险合成未来72小时的风险序列
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 基线获取 -> 线性趋势叠加 -> 高斯噪声注入 -> [0,1]截断
 * @rules 这是占位的趋势模型而非训练得到的时序模型，已知局限按原样保留，不做静默"修复"
 * @dependencies math/rand, time
 * @refs service/inference/fusion_client.go, api/controllers/forecast_controller.go
 */

package forecast

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"slopeml-service/service/utils"
)

// Timestamps 预报序列的固定时间偏移标签
var Timestamps = []string{"+12h", "+24h", "+36h", "+48h", "+60h", "+72h"}

const (
	trendStep = 0.02 // 每个时间步的线性趋势增量
	noiseStd  = 0.05 // 高斯噪声标准差
)

// Forecaster 占位趋势外推器
// 真实的时序预报模型尚未接入，当前实现仅做线性趋势加噪声的合成
// 进程内为单例，随机源不是并发安全的，采样必须持锁
type Forecaster struct {
	mutex sync.Mutex
	rng   *rand.Rand
}

// NewForecaster 创建外推器，使用时间种子
func NewForecaster() *Forecaster {
	return NewForecasterWithSeed(time.Now().UnixNano())
}

// NewForecasterWithSeed 创建指定种子的外推器，供测试使用
func NewForecasterWithSeed(seed int64) *Forecaster {
	return &Forecaster{rng: rand.New(rand.NewSource(seed))}
}

// Project 基于基线风险合成预报序列
// 第i个点为 base + i*0.02 + N(0, 0.05)，截断到[0,1]并保留4位小数
func (f *Forecaster) Project(baseRisk float64) []float64 {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	values := make([]float64, 0, len(Timestamps))
	for i := range Timestamps {
		v := baseRisk + float64(i)*trendStep + f.rng.NormFloat64()*noiseStd
		v = math.Max(0.0, math.Min(1.0, v))
		values = append(values, utils.Round4(v))
	}
	return values
}
