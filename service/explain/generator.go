/*
 * @module service/explain/generator
 * @description 解释文本生成器，将高重要度信号集合转换为人类可读的风险解释语句
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 档位过滤 -> 模板填充 -> 语句拼接
 * @rules 仅提及high档位信号；无识别模板的信号静默跳过；语句以". "连接并追加句尾句号；空集返回固定的低风险语句
 * @dependencies fmt
 * @refs service/risk/classifier.go, api/controllers/explain_controller.go
 */

package explain

import (
	"fmt"
	"strings"
)

// FallbackSentence 无高重要度信号时的固定回退语句
const FallbackSentence = "All features are within normal ranges. Risk is low."

// SignalOrder 解释语句中信号的固定输出顺序
var SignalOrder = []string{"displacement", "pore_pressure", "vibration", "visual_crack", "weather"}

// 各信号的语句模板，重要度值以百分比填充
var sentenceTemplates = map[string]string{
	"displacement":  "High ground displacement detected (%.2f%% of critical threshold)",
	"pore_pressure": "Elevated pore pressure observed (%.2f%% of critical threshold)",
	"vibration":     "Significant vibration detected (%.2f%% of critical threshold)",
	"visual_crack":  "Visual crack detection indicates structural issues (%.2f%% confidence)",
	"weather":       "Weather conditions are exacerbating risk (%.2f%% impact)",
}

// Generate 根据信号重要度值和档位生成解释文本
// 按SignalOrder遍历保证输出顺序确定，未识别的信号没有模板，直接跳过
func Generate(shapValues map[string]float64, buckets map[string]string) string {
	sentences := make([]string, 0, len(SignalOrder))
	for _, signal := range SignalOrder {
		if buckets[signal] != "high" {
			continue
		}
		sentences = append(sentences, fmt.Sprintf(sentenceTemplates[signal], shapValues[signal]*100))
	}

	if len(sentences) == 0 {
		return FallbackSentence
	}
	return strings.Join(sentences, ". ") + "."
}
