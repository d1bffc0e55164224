/*
 * @module api/controllers/detect_controller_test
 * @description 裂缝检测控制器单元测试，覆盖上传校验、模型调用失败和临时文件清理
 * @architecture 测试层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 构造multipart请求 -> 发起HTTP请求 -> 校验响应和临时目录状态
 * @rules 成功和失败路径都必须验证临时文件已被清理
 * @dependencies testify, net/http/httptest, mime/multipart
 * @refs api/controllers/detect_controller.go
 */

package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slopeml-service/service/history"
	"slopeml-service/service/inference"
	"slopeml-service/testutil"
)

// crackHandler 返回固定裂缝概率的视觉模型处理器，并校验multipart转发格式
func crackHandler(t *testing.T, probability float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		file.Close()

		json.NewEncoder(w).Encode(map[string]float64{"crack_probability": probability})
	}
}

// assertUploadDirEmpty 断言临时目录中没有残留文件
func assertUploadDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDetect_ModelNotLoaded(t *testing.T) {
	// ===== 视觉模型未加载时返回503 =====
	controller := NewDetectController(inference.NewRegistry("", "", ""), nil, history.NewStore(0), t.TempDir())

	req := testutil.NewImageUploadRequest(t, "/detect", "file", "crack.jpg", []byte("fakejpg"))
	w := httptest.NewRecorder()
	controller.Detect(w, req)

	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
	envelope := testutil.DecodeError(t, w)
	assert.Equal(t, "Vision model not loaded", envelope.Error)
}

func TestDetect_MissingFileAndURL(t *testing.T) {
	// ===== file和image_url均缺失时返回400 =====
	runtime := testutil.NewModelRuntime(t, testutil.WithHandler("/predict", crackHandler(t, 0.1)))
	registry := newLoadedRegistry(t, "", runtime.URL, "")
	controller := NewDetectController(registry, nil, history.NewStore(0), t.TempDir())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/detect", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	controller.Detect(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
	envelope := testutil.DecodeError(t, w)
	assert.Equal(t, "Either file or image_url must be provided", envelope.Message)
}

func TestDetect_ImageURLNotImplemented(t *testing.T) {
	// ===== image_url方式返回501 =====
	runtime := testutil.NewModelRuntime(t, testutil.WithHandler("/predict", crackHandler(t, 0.1)))
	registry := newLoadedRegistry(t, "", runtime.URL, "")
	controller := NewDetectController(registry, nil, history.NewStore(0), t.TempDir())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("image_url", "https://example.com/slope.jpg"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/detect", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	controller.Detect(w, req)

	testutil.AssertStatus(t, w, http.StatusNotImplemented)
	envelope := testutil.DecodeError(t, w)
	assert.Equal(t, "image_url not yet implemented", envelope.Message)
}

func TestDetect_ImageURLQueryParam(t *testing.T) {
	// ===== 查询参数形式的image_url在没有multipart体时同样返回501 =====
	runtime := testutil.NewModelRuntime(t, testutil.WithHandler("/predict", crackHandler(t, 0.1)))
	registry := newLoadedRegistry(t, "", runtime.URL, "")
	controller := NewDetectController(registry, nil, history.NewStore(0), t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/detect?image_url=https://example.com/slope.jpg", nil)
	w := httptest.NewRecorder()
	controller.Detect(w, req)

	testutil.AssertStatus(t, w, http.StatusNotImplemented)
	envelope := testutil.DecodeError(t, w)
	assert.Equal(t, "image_url not yet implemented", envelope.Message)
}

func TestDetect_NonMultipartBody(t *testing.T) {
	// ===== 非multipart请求体返回400 =====
	runtime := testutil.NewModelRuntime(t, testutil.WithHandler("/predict", crackHandler(t, 0.1)))
	registry := newLoadedRegistry(t, "", runtime.URL, "")
	controller := NewDetectController(registry, nil, history.NewStore(0), t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/detect", bytes.NewReader([]byte("not multipart")))
	w := httptest.NewRecorder()
	controller.Detect(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestDetect_Success(t *testing.T) {
	// ===== 成功路径：概率、分级、来源信息和临时文件清理 =====
	runtime := testutil.NewModelRuntime(t, testutil.WithHandler("/predict", crackHandler(t, 0.85)))
	registry := newLoadedRegistry(t, "", runtime.URL, "")
	store := history.NewStore(0)
	uploadDir := t.TempDir()
	controller := NewDetectController(registry, nil, store, uploadDir)

	content := []byte("fake jpeg bytes")
	req := testutil.NewImageUploadRequest(t, "/detect", "file", "crack.jpg", content)
	w := httptest.NewRecorder()
	controller.Detect(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	data := testutil.DecodeEnvelope(t, w)

	assert.Equal(t, true, data["detected"])
	assert.InDelta(t, 0.85, data["crack_probability"], 1e-9)
	assert.InDelta(t, 0.85, data["confidence"], 1e-9)

	source := data["source"].(map[string]interface{})
	assert.Equal(t, "crack.jpg", source["filename"])
	assert.InDelta(t, float64(len(content)), source["size"], 1e-9)

	assessment := data["risk_assessment"].(map[string]interface{})
	assert.Equal(t, "critical", assessment["level"])
	assert.NotEmpty(t, assessment["action"])

	assertUploadDirEmpty(t, uploadDir)

	records := store.Recent()
	require.Len(t, records, 1)
	assert.Equal(t, "detect", records[0].Kind)
}

func TestDetect_ImageFieldFallback(t *testing.T) {
	// ===== 以image为字段名的旧客户端仍被接受 =====
	runtime := testutil.NewModelRuntime(t, testutil.WithHandler("/predict", crackHandler(t, 0.2)))
	registry := newLoadedRegistry(t, "", runtime.URL, "")
	controller := NewDetectController(registry, nil, history.NewStore(0), t.TempDir())

	req := testutil.NewImageUploadRequest(t, "/detect", "image", "slope.png", []byte("fakepng"))
	w := httptest.NewRecorder()
	controller.Detect(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	data := testutil.DecodeEnvelope(t, w)
	assert.Equal(t, false, data["detected"])
}

func TestDetect_CleanupOnModelFailure(t *testing.T) {
	// ===== 模型调用失败时临时文件同样被清理 =====
	runtime := testutil.NewModelRuntime(t, testutil.WithHandler("/predict", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	registry := newLoadedRegistry(t, "", runtime.URL, "")
	uploadDir := t.TempDir()
	controller := NewDetectController(registry, nil, history.NewStore(0), uploadDir)

	req := testutil.NewImageUploadRequest(t, "/detect", "file", "crack.jpg", []byte("fakejpg"))
	w := httptest.NewRecorder()
	controller.Detect(w, req)

	testutil.AssertStatus(t, w, http.StatusInternalServerError)
	envelope := testutil.DecodeError(t, w)
	assert.Contains(t, envelope.Message, "Detection failed:")

	assertUploadDirEmpty(t, uploadDir)
}
