/*
 * @module api/controllers/health_controller_test
 * @description 健康检查控制器单元测试，覆盖模型加载标志上报和服务在线语义
 * @architecture 测试层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 构造注册表 -> 发起HTTP请求 -> 校验状态响应
 * @rules 模型全部加载失败时服务仍为online，标志逐个为false
 * @dependencies testify, net/http/httptest
 * @refs api/controllers/health_controller.go
 */

package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slopeml-service/service/inference"
	"slopeml-service/testutil"
)

func TestRoot_NoModelsLoaded(t *testing.T) {
	// ===== 模型全部未加载时服务仍在线，标志全为false =====
	controller := NewHealthController(inference.NewRegistry("", "", ""))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	controller.Root(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "online", status.Status)
	assert.Equal(t, "slopeml-service", status.Service)
	assert.Equal(t, map[string]bool{"vision": false, "xgb": false, "fusion": false}, status.ModelsLoaded)
}

func TestRoot_AllModelsLoaded(t *testing.T) {
	// ===== 三个运行时健康时标志全为true =====
	runtime := testutil.NewModelRuntime(t)
	registry := newLoadedRegistry(t, runtime.URL, runtime.URL, runtime.URL)
	controller := NewHealthController(registry)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	controller.Root(w, req)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, map[string]bool{"vision": true, "xgb": true, "fusion": true}, status.ModelsLoaded)
}

func TestHealth(t *testing.T) {
	controller := NewHealthController(inference.NewRegistry("", "", ""))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	controller.Health(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "slopeml-service", health.Service)
	assert.False(t, health.Timestamp.IsZero())
}

func TestReady(t *testing.T) {
	controller := NewHealthController(inference.NewRegistry("", "", ""))

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	controller.Ready(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var ready HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready.Status)
}
