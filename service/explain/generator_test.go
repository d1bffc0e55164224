/*
 * @module service/explain/generator_test
 * @description 解释文本生成器单元测试
 * @architecture 测试层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 测试准备 -> 文本生成 -> 结果验证
 * @rules 验证回退语句的精确字面值、语句连接方式和未识别信号的跳过行为
 * @dependencies testing, stretchr/testify
 */

package explain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGenerateFallback 测试无高重要度信号时返回固定回退语句
func TestGenerateFallback(t *testing.T) {
	shapValues := map[string]float64{
		"displacement":  0.1,
		"pore_pressure": 0.3,
		"vibration":     0.05,
	}
	buckets := map[string]string{
		"displacement":  "low",
		"pore_pressure": "low",
		"vibration":     "low",
	}

	assert.Equal(t, "All features are within normal ranges. Risk is low.", Generate(shapValues, buckets))
}

// TestGenerateSingleSignal 测试单个高重要度信号的语句和百分比格式
func TestGenerateSingleSignal(t *testing.T) {
	shapValues := map[string]float64{"displacement": 0.42}
	buckets := map[string]string{"displacement": "high"}

	assert.Equal(t, "High ground displacement detected (42.00% of critical threshold).", Generate(shapValues, buckets))
}

// TestGenerateMultipleSignals 测试多个信号以". "连接且仅追加一个句尾句号
func TestGenerateMultipleSignals(t *testing.T) {
	shapValues := map[string]float64{
		"displacement": 0.85,
		"vibration":    0.9,
		"weather":      0.75,
	}
	buckets := map[string]string{
		"displacement": "high",
		"vibration":    "high",
		"weather":      "high",
	}

	result := Generate(shapValues, buckets)

	assert.Equal(t, "High ground displacement detected (85.00% of critical threshold). "+
		"Significant vibration detected (90.00% of critical threshold). "+
		"Weather conditions are exacerbating risk (75.00% impact).", result)
	assert.True(t, strings.HasSuffix(result, ")."))
	assert.Zero(t, strings.Count(result, ".."), "不应出现连续句号")
}

// TestGenerateSignalOrder 测试语句顺序与信号固定顺序一致
func TestGenerateSignalOrder(t *testing.T) {
	shapValues := map[string]float64{
		"weather":      0.8,
		"visual_crack": 0.95,
	}
	buckets := map[string]string{
		"weather":      "high",
		"visual_crack": "high",
	}

	result := Generate(shapValues, buckets)
	assert.Less(t, strings.Index(result, "Visual crack"), strings.Index(result, "Weather conditions"))
}

// TestGenerateUnknownSignalSkipped 测试未识别信号被静默跳过
func TestGenerateUnknownSignalSkipped(t *testing.T) {
	shapValues := map[string]float64{"rainfall": 0.99}
	buckets := map[string]string{"rainfall": "high"}

	assert.Equal(t, FallbackSentence, Generate(shapValues, buckets))
}

// TestGenerateMediumExcluded 测试medium档位信号不出现在解释中
func TestGenerateMediumExcluded(t *testing.T) {
	shapValues := map[string]float64{
		"displacement":  0.9,
		"pore_pressure": 0.5,
	}
	buckets := map[string]string{
		"displacement":  "high",
		"pore_pressure": "medium",
	}

	result := Generate(shapValues, buckets)
	assert.Contains(t, result, "High ground displacement")
	assert.NotContains(t, result, "pore pressure")
}
