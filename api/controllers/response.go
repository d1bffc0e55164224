/*
 * @module api/controllers/response
 * @description 统一API响应结构与错误输出辅助，响应格式与原ML服务的wire格式保持兼容
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 业务结果 -> 信封封装 -> 状态码设置 -> JSON输出
 * @rules 成功信封为{ok,implemented,data}，错误信封为{ok,error,message}；错误必须携带真实HTTP状态码
 * @dependencies github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIResponse 统一成功响应结构
type APIResponse struct {
	OK          bool        `json:"ok" example:"true"`
	Implemented bool        `json:"implemented" example:"true"`
	Data        interface{} `json:"data,omitempty"`
}

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	OK      bool   `json:"ok" example:"false"`
	Error   string `json:"error" example:"XGBoost model not loaded"`
	Message string `json:"message,omitempty" example:"Model file not found or failed to load"`
}

// SuccessResponse 构建成功响应信封
func SuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{
		OK:          true,
		Implemented: true,
		Data:        data,
	}
}

// writeError 输出带状态码的错误信封
func writeError(w http.ResponseWriter, r *http.Request, status int, errMsg, message string) {
	render.Status(r, status)
	render.JSON(w, r, &ErrorResponse{
		OK:      false,
		Error:   errMsg,
		Message: message,
	})
}

// ServiceUnavailable 模型或引擎未加载
func ServiceUnavailable(w http.ResponseWriter, r *http.Request, errMsg, message string) {
	writeError(w, r, http.StatusServiceUnavailable, errMsg, message)
}

// BadRequest 请求参数非法
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusBadRequest, "Bad request", message)
}

// NotImplemented 已识别但未实现的功能路径
func NotImplemented(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusNotImplemented, "Not implemented", message)
}

// InternalError 模型调用或响应构建过程中的未预期失败，附带底层错误信息便于排查
func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusInternalServerError, "Internal error", message)
}
