/*
 * @module service/feature/normalizer
 * @description 特征归一化器，将原始传感器信号按固定规则映射为[0,1]的重要度评分，并选取得分最高的信号
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 信号名匹配 -> 除数归一 -> 上限截断 -> 稳定排序选取Top-N
 * @rules 按信号名子串匹配规则，首个命中生效；结果上限截断为1.0；负值不做下限截断；同分信号保持原始顺序
 * @dependencies slopeml-service/service/models, sort, strings
 * @refs service/risk/classifier.go, api/controllers/predict_controller.go
 */

package feature

import (
	"math"
	"sort"
	"strings"

	"slopeml-service/service/models"
)

// TopFeatureCount 预测响应中报告的最高重要度信号数量
const TopFeatureCount = 5

// normalizeRule 信号名子串到归一化除数的映射规则
type normalizeRule struct {
	substr  string
	divisor float64
}

// 规则按声明顺序匹配，首个命中生效
var normalizeRules = []normalizeRule{
	{"disp", 10.0},
	{"pore", 50.0},
	{"vibration", 0.5},
	{"precip", 50.0},
}

// Normalize 将单个信号的原始值归一化为重要度评分
// 未命中规则的信号取绝对值除以100.0，零值直接返回0.0；结果上限截断为1.0
func Normalize(name string, value float64) float64 {
	for _, rule := range normalizeRules {
		if strings.Contains(name, rule.substr) {
			return math.Min(value/rule.divisor, 1.0)
		}
	}
	if value == 0 {
		return 0.0
	}
	return math.Min(math.Abs(value)/100.0, 1.0)
}

// Importance 计算特征向量各信号的重要度评分，保持输入顺序
func Importance(vector models.FeatureVector) models.FeatureVector {
	scores := make(models.FeatureVector, 0, len(vector))
	for _, fv := range vector {
		scores = append(scores, models.FeatureValue{
			Name:  fv.Name,
			Value: Normalize(fv.Name, fv.Value),
		})
	}
	return scores
}

// TopImportance 返回重要度最高的前N个信号
// 使用稳定排序，同分信号保持原始字段顺序
func TopImportance(vector models.FeatureVector, n int) models.FeatureVector {
	scores := Importance(vector)
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Value > scores[j].Value
	})
	if len(scores) > n {
		scores = scores[:n]
	}
	return scores
}
