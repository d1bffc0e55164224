/*
 * @module service/models/sensor
 * @description 传感器读数与特征向量模型，定义边坡监测传感器的字段集合和训练时固定的特征顺序
 * @architecture 分层架构 - 数据模型层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 请求接收 -> 读数构建 -> 特征向量组装 -> 模型评分
 * @rules 特征顺序与模型训练时保持一致，缺失字段默认为0.0，读数构建后不可变
 * @dependencies 无
 * @refs service/feature/normalizer.go, service/inference/tabular_client.go
 */

package models

// FeatureOrder 表格模型的特征顺序，必须与训练时一致，下游模型对顺序敏感
var FeatureOrder = []string{
	"disp_last", "disp_1h_mean", "disp_1h_std",
	"pore_kpa", "vibration_g",
	"slope_deg", "aspect_deg", "curvature", "roughness",
	"precip_mm_1h", "temp_c",
}

// SensorReading 单次请求的传感器读数集合
// 键为固定的特征字段名，缺失字段视为0.0，构建后只读
type SensorReading map[string]float64

// FeatureValue 特征向量中的一个有序项
type FeatureValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// FeatureVector 按训练顺序排列的特征序列
type FeatureVector []FeatureValue

// BuildFeatureVector 按固定顺序从读数构建特征向量，缺失字段填0.0
func BuildFeatureVector(reading SensorReading) FeatureVector {
	vector := make(FeatureVector, 0, len(FeatureOrder))
	for _, name := range FeatureOrder {
		vector = append(vector, FeatureValue{Name: name, Value: reading[name]})
	}
	return vector
}

// Row 返回特征向量的纯数值行，供模型评分使用
func (v FeatureVector) Row() []float64 {
	row := make([]float64, 0, len(v))
	for _, fv := range v {
		row = append(row, fv.Value)
	}
	return row
}

// AsMap 返回特征向量的名称到数值映射，用于响应中的features_used字段
func (v FeatureVector) AsMap() map[string]float64 {
	m := make(map[string]float64, len(v))
	for _, fv := range v {
		m[fv.Name] = fv.Value
	}
	return m
}
