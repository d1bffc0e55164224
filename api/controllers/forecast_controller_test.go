/*
 * @module api/controllers/forecast_controller_test
 * @description 风险预报控制器单元测试，覆盖融合引擎不可用、回源失败和成功路径
 * @architecture 测试层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 构造假融合引擎 -> 发起HTTP请求 -> 校验预报序列
 * @rules 使用固定随机种子保证预报序列可断言
 * @dependencies testify, net/http/httptest
 * @refs api/controllers/forecast_controller.go
 */

package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slopeml-service/service/forecast"
	"slopeml-service/service/inference"
	"slopeml-service/testutil"
)

// assessmentHandler 返回固定评估文档的融合引擎处理器
func assessmentHandler(raw []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(raw)
	}
}

func TestForecast_EngineNotAvailable(t *testing.T) {
	// ===== 融合引擎不可用时返回503 =====
	controller := NewForecastController(inference.NewRegistry("", "", ""), forecast.NewForecasterWithSeed(1), nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/forecast", map[string]interface{}{"slopeId": "slope_1"})
	w := httptest.NewRecorder()
	controller.Forecast(w, req)

	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
	envelope := testutil.DecodeError(t, w)
	assert.Equal(t, "Fusion engine not available", envelope.Error)
	assert.Equal(t, "Fusion engine not initialized", envelope.Message)
}

func TestForecast_FusionFailure(t *testing.T) {
	// ===== 融合引擎回源失败返回500 =====
	runtime := testutil.NewModelRuntime(t, testutil.WithHandler("/risk/current", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	registry := newLoadedRegistry(t, "", "", runtime.URL)
	controller := NewForecastController(registry, forecast.NewForecasterWithSeed(1), nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/forecast", map[string]interface{}{"slopeId": "slope_1"})
	w := httptest.NewRecorder()
	controller.Forecast(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	envelope := testutil.DecodeError(t, w)
	assert.Contains(t, envelope.Message, "Forecast failed:")
}

func TestForecast_Success(t *testing.T) {
	// ===== 成功路径：6点序列、时间标签、基线和评估透传 =====
	raw := testutil.NewAssessmentJSON(0.4)
	runtime := testutil.NewModelRuntime(t, testutil.WithHandler("/risk/current", assessmentHandler(raw)))
	registry := newLoadedRegistry(t, "", "", runtime.URL)
	controller := NewForecastController(registry, forecast.NewForecasterWithSeed(42), nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/forecast", map[string]interface{}{"slopeId": "slope_1"})
	w := httptest.NewRecorder()
	controller.Forecast(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	data := testutil.DecodeEnvelope(t, w)

	assert.Equal(t, "slope_1", data["slopeId"])
	assert.InDelta(t, 0.4, data["base_risk"], 1e-9)

	timestamps, ok := data["timestamps"].([]interface{})
	require.True(t, ok)
	require.Len(t, timestamps, 6)
	assert.Equal(t, "+12h", timestamps[0])
	assert.Equal(t, "+72h", timestamps[5])

	values, ok := data["forecast"].([]interface{})
	require.True(t, ok)
	require.Len(t, values, 6)
	for _, v := range values {
		risk := v.(float64)
		assert.GreaterOrEqual(t, risk, 0.0)
		assert.LessOrEqual(t, risk, 1.0)
	}

	assessment, ok := data["current_assessment"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "A-12", assessment["zone"])
}
