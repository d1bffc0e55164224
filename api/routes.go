/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs service/init.go
 */

package api

import (
	"slopeml-service/api/controllers"
	apimiddleware "slopeml-service/api/middleware"
	"slopeml-service/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API密钥鉴权（未配置ML_API_KEY_HASH时直接放行）
	r.Use(apimiddleware.APIKeyAuthFromEnv())

	// 服务状态
	healthController := controllers.NewHealthController(service.GlobalModelRegistry)
	r.Get("/", healthController.Root)
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 传感器风险预测
	predictController := controllers.NewPredictController(
		service.GlobalModelRegistry,
		service.GlobalAlertPublisher,
		service.GlobalHistoryStore,
	)
	r.Post("/predict", predictController.Predict)
	r.Get("/predictions", predictController.ListPredictions)

	// 图像裂缝检测
	detectController := controllers.NewDetectController(
		service.GlobalModelRegistry,
		service.GlobalAlertPublisher,
		service.GlobalHistoryStore,
		service.GlobalUploadDir,
	)
	r.Post("/detect", detectController.Detect)

	// 风险预报与解释
	forecastController := controllers.NewForecastController(
		service.GlobalModelRegistry,
		service.GlobalForecaster,
		service.GlobalAssessmentCache,
	)
	r.Post("/forecast", forecastController.Forecast)

	explainController := controllers.NewExplainController(service.GlobalModelRegistry, service.GlobalAssessmentCache)
	r.Get("/explain/{predictionId}", explainController.Explain)

	// 融合风险透传
	riskController := controllers.NewRiskController(service.GlobalModelRegistry, service.GlobalAssessmentCache)
	r.Route("/risk", func(r chi.Router) {
		r.Get("/current", riskController.Current)
		r.Get("/grid", riskController.Grid)
	})

	// 遥测快照
	telemetryController := controllers.NewTelemetryController(service.GlobalTelemetryListener)
	r.Get("/telemetry/{slopeId}/latest", telemetryController.Latest)
}
