/*
 * @module service/init
 * @description 服务初始化模块，负责模型注册表加载、告警与遥测通道建立等初始化工作
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 三个模型协作方独立加载，任一失败不阻塞其他协作方和进程启动；各端点独立上报不可用状态
 * @dependencies slopeml-service/service/inference, slopeml-service/service/alert, slopeml-service/service/telemetry
 * @refs api/routes.go
 */

package service

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"slopeml-service/logger"
	"slopeml-service/service/alert"
	"slopeml-service/service/cache"
	"slopeml-service/service/cleanup"
	"slopeml-service/service/forecast"
	"slopeml-service/service/history"
	"slopeml-service/service/inference"
	"slopeml-service/service/monitoring"
	"slopeml-service/service/telemetry"
)

var (
	GlobalModelRegistry     *inference.Registry
	GlobalForecaster        *forecast.Forecaster
	GlobalAlertPublisher    *alert.Publisher
	GlobalTelemetryListener *telemetry.Listener
	GlobalAssessmentCache   *cache.AssessmentCache
	GlobalHistoryStore      *history.Store
	GlobalHealthChecker     *monitoring.HealthChecker
	GlobalUploadCleanup     *cleanup.UploadCleanupService

	// GlobalUploadDir 图像上传的临时目录，请求结束后文件即被清理
	GlobalUploadDir string
)

func init() {
	logger.InitLogger()
	initUploadDir()
	initModelRegistry()
	initSideChannels()
	initHealthChecker()
}

// initUploadDir 准备图像上传临时目录
func initUploadDir() {
	GlobalUploadDir = getEnvWithDefault("UPLOAD_DIR", "uploads")
	if err := os.MkdirAll(GlobalUploadDir, 0o755); err != nil {
		slog.Error("创建上传目录失败", "dir", GlobalUploadDir, "error", err)
	}
}

// initModelRegistry 构建模型注册表并独立加载各协作方
func initModelRegistry() {
	GlobalModelRegistry = inference.NewRegistry(
		os.Getenv("TABULAR_MODEL_URL"),
		os.Getenv("VISION_MODEL_URL"),
		os.Getenv("FUSION_ENGINE_URL"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	GlobalModelRegistry.Load(ctx)
	monitoring.SetModelLoaded(GlobalModelRegistry.LoadedFlags())

	GlobalForecaster = forecast.NewForecaster()
	GlobalHistoryStore = history.NewStore(history.DefaultCapacity)
}

// initSideChannels 建立可选的告警、遥测和缓存通道
func initSideChannels() {
	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	GlobalAlertPublisher = alert.NewPublisher(brokers, os.Getenv("KAFKA_ALERT_TOPIC"))
	if GlobalAlertPublisher == nil {
		slog.Info("Kafka未配置，风险告警通道未启用")
	}

	GlobalTelemetryListener = telemetry.NewListener(os.Getenv("MQTT_BROKER_URL"), os.Getenv("MQTT_TOPIC"))
	if GlobalTelemetryListener == nil {
		slog.Info("MQTT未配置，遥测快照通道未启用")
	} else {
		GlobalTelemetryListener.Start()
	}

	cacheTTL := time.Duration(0)
	if raw := os.Getenv("ASSESSMENT_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			cacheTTL = parsed
		} else {
			slog.Warn("评估缓存TTL配置非法，使用默认值", "value", raw)
		}
	}
	GlobalAssessmentCache = cache.NewAssessmentCache(os.Getenv("REDIS_ADDRESS"), cacheTTL)
	if GlobalAssessmentCache == nil {
		slog.Info("Redis未配置，评估缓存未启用")
	}
}

// initHealthChecker 启动模型健康巡检和上传目录兜底清理
func initHealthChecker() {
	GlobalHealthChecker = monitoring.NewHealthChecker(GlobalModelRegistry, os.Getenv("MODEL_HEALTH_INTERVAL"))
	if err := GlobalHealthChecker.Start(); err != nil {
		slog.Error("启动模型健康巡检失败", "error", err)
	}

	retention := time.Duration(0)
	if raw := os.Getenv("UPLOAD_RETENTION"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			retention = parsed
		} else {
			slog.Warn("上传保留时长配置非法，使用默认值", "value", raw)
		}
	}
	GlobalUploadCleanup = cleanup.NewUploadCleanupService(GlobalUploadDir, retention)
	if err := GlobalUploadCleanup.StartScheduledCleanup(); err != nil {
		slog.Error("启动上传目录清理失败", "error", err)
	}
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
