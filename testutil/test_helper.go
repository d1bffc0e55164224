/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @dependencies testify, net/http/httptest, mime/multipart
 * @refs api/controllers
 */

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewSensorReading 构造一组接近正常区间的测试传感器读数
func NewSensorReading() map[string]interface{} {
	return map[string]interface{}{
		"disp_last":    2.5,
		"disp_1h_mean": 2.1,
		"disp_1h_std":  0.3,
		"pore_kpa":     12.0,
		"vibration_g":  0.05,
		"slope_deg":    38.0,
		"aspect_deg":   120.0,
		"curvature":    0.02,
		"roughness":    0.6,
		"precip_mm_1h": 4.0,
		"temp_c":       21.5,
	}
}

// NewAssessmentJSON 构造融合引擎风格的综合评估响应体
func NewAssessmentJSON(enhancedRisk float64) []byte {
	doc := map[string]interface{}{
		"enhanced_risk": enhancedRisk,
		"sources": map[string]interface{}{
			"sensors": map[string]interface{}{
				"max_disp_mm":  6.0,
				"max_pore_kpa": 20.0,
				"max_vib_g":    0.1,
			},
			"visual": map[string]interface{}{
				"risk_score": 0.3,
			},
		},
		"weather_impact": 0.2,
		"zone":           "A-12",
	}
	raw, _ := json.Marshal(doc)
	return raw
}

// ModelRuntimeOption 假模型运行时的行为配置
type ModelRuntimeOption func(*runtimeConfig)

type runtimeConfig struct {
	healthy  bool
	handlers map[string]http.HandlerFunc
}

// WithUnhealthy 让 /health 探针返回503
func WithUnhealthy() ModelRuntimeOption {
	return func(c *runtimeConfig) { c.healthy = false }
}

// WithHandler 注册指定路径的自定义处理器
func WithHandler(path string, h http.HandlerFunc) ModelRuntimeOption {
	return func(c *runtimeConfig) { c.handlers[path] = h }
}

// NewModelRuntime 启动一个假的模型运行时HTTP服务
// 默认 /health 返回200,其他路径由选项注册
func NewModelRuntime(t *testing.T, opts ...ModelRuntimeOption) *httptest.Server {
	t.Helper()

	cfg := &runtimeConfig{healthy: true, handlers: map[string]http.HandlerFunc{}}
	for _, opt := range opts {
		opt(cfg)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if !cfg.healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	for path, h := range cfg.handlers {
		mux.HandleFunc(path, h)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// NewJSONRequest 创建JSON请求
func NewJSONRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// NewImageUploadRequest 创建带图像文件的multipart上传请求
func NewImageUploadRequest(t *testing.T, url, fieldName, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// DecodeEnvelope 解析标准成功信封并返回data部分
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		OK          bool                   `json:"ok"`
		Implemented bool                   `json:"implemented"`
		Data        map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.OK)
	assert.True(t, envelope.Implemented)
	return envelope.Data
}

// ErrorEnvelope 错误响应信封
type ErrorEnvelope struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// DecodeError 解析错误信封
func DecodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()

	var envelope ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.OK)
	return envelope
}

// AssertStatus 断言响应状态码,失败时附带响应体便于排查
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, w.Code, "response body: %s", w.Body.String())
}
