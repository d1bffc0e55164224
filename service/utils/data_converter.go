/**
 * @module data_converter
 * @description 数据转换工具模块，负责请求载荷的数值校验转换和评分精度处理
 * @architecture 工具函数模式，提供静态转换方法集合
 * @documentReference 参考 ai_docs/ml_gateway_requirements.md 第3节
 * @stateFlow 无状态转换：输入 -> 转换逻辑 -> 输出
 * @rules
 *   - 非数值字段必须返回类型化错误，不做静默强转
 *   - 评分统一保留4位小数输出
 * @dependencies
 *   - github.com/spf13/cast: 宽松类型到数值的转换
 *   - math: 精度处理
 * @refs
 *   - api/controllers/predict_controller.go: 传感器数据校验
 */

package utils

import (
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// FieldTypeError 字段类型校验错误
type FieldTypeError struct {
	Field string
	Value interface{}
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("字段 %s 不是合法数值: %v", e.Field, e.Value)
}

// ToFloatField 将载荷中的单个字段转换为float64
// 转换失败返回FieldTypeError，调用方据此返回400而非静默置零
func ToFloatField(field string, value interface{}) (float64, error) {
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, &FieldTypeError{Field: field, Value: value}
	}
	return f, nil
}

// ToFloatMap 将宽松类型的载荷映射转换为数值映射，任一字段非法即整体失败
func ToFloatMap(payload map[string]interface{}) (map[string]float64, error) {
	result := make(map[string]float64, len(payload))
	for field, value := range payload {
		f, err := ToFloatField(field, value)
		if err != nil {
			return nil, err
		}
		result[field] = f
	}
	return result, nil
}

// Round4 保留4位小数，与响应中的评分精度一致
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
