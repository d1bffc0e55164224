/*
 * @module api/controllers/detect_controller
 * @description 裂缝检测控制器，处理图像上传、视觉模型调用和裂缝风险评估
 * @architecture MVC架构 - 控制器层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 输入校验 -> 临时文件落盘 -> 视觉模型调用 -> 阈值分级 -> 临时文件清理 -> 响应返回
 * @rules 临时文件以defer保证在成功和失败路径上都被删除；file和image_url二者缺一返回400；image_url路径返回501
 * @dependencies slopeml-service/service/risk, github.com/google/uuid, github.com/go-chi/render
 * @refs service/inference/vision_client.go, service/alert/publisher.go
 */

package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"slopeml-service/service/alert"
	"slopeml-service/service/history"
	"slopeml-service/service/inference"
	"slopeml-service/service/models"
	"slopeml-service/service/monitoring"
	"slopeml-service/service/risk"
	"slopeml-service/service/utils"
)

// maxUploadSize 上传图像大小上限
const maxUploadSize = 10 << 20

// DetectController 裂缝检测控制器
type DetectController struct {
	registry  *inference.Registry
	publisher *alert.Publisher
	history   *history.Store
	uploadDir string
}

// NewDetectController 创建裂缝检测控制器实例
func NewDetectController(registry *inference.Registry, publisher *alert.Publisher, store *history.Store, uploadDir string) *DetectController {
	return &DetectController{
		registry:  registry,
		publisher: publisher,
		history:   store,
		uploadDir: uploadDir,
	}
}

// DetectSource 检测输入的来源信息
type DetectSource struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// DetectResult 裂缝检测响应数据
type DetectResult struct {
	Detected         bool                       `json:"detected"`
	Confidence       float64                    `json:"confidence"`
	CrackProbability float64                    `json:"crack_probability"`
	Source           DetectSource               `json:"source"`
	RiskAssessment   models.CrackRiskAssessment `json:"risk_assessment"`
}

// Detect 图像裂缝检测
// @Summary 图像裂缝检测
// @Description 接收multipart图像上传，调用视觉模型计算裂缝概率并评估风险等级；image_url方式尚未实现
// @Tags 机器学习
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "图像文件"
// @Param image_url formData string false "图像URL（未实现）"
// @Param image_url query string false "图像URL（未实现）"
// @Success 200 {object} APIResponse{data=DetectResult}
// @Failure 400 {object} ErrorResponse
// @Failure 501 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /detect [post]
func (c *DetectController) Detect(w http.ResponseWriter, r *http.Request) {
	vision := c.registry.Vision()
	if vision == nil {
		ServiceUnavailable(w, r, "Vision model not loaded", "Model file not found or failed to load")
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		// 没有multipart体但带image_url参数的请求仍然是合法的501路径
		if imageURLParam(r) != "" {
			NotImplemented(w, r, "image_url not yet implemented")
			return
		}
		BadRequest(w, r, "Either file or image_url must be provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		// 兼容以image为字段名的旧客户端
		file, header, err = r.FormFile("image")
	}
	if err != nil {
		if imageURLParam(r) != "" {
			NotImplemented(w, r, "image_url not yet implemented")
			return
		}
		BadRequest(w, r, "Either file or image_url must be provided")
		return
	}
	defer file.Close()

	// 每个请求独立的临时文件名，避免并发上传冲突
	tempPath := filepath.Join(c.uploadDir, uuid.New().String()+uploadExt(header.Filename))
	// 无论落盘和模型调用成功与否，临时文件都必须清理
	defer os.Remove(tempPath)

	size, err := c.saveUpload(file, tempPath)
	if err != nil {
		InternalError(w, r, fmt.Sprintf("Detection failed: %s", err.Error()))
		return
	}

	started := time.Now()
	probability, err := vision.PredictCrack(r.Context(), tempPath)
	monitoring.ObserveInference(monitoring.ModelVision, started, err)
	if err != nil {
		InternalError(w, r, fmt.Sprintf("Detection failed: %s", err.Error()))
		return
	}

	assessment := risk.AssessCrackRisk(probability)
	c.history.Record("", "detect", probability, assessment.Level)
	if alert.ShouldAlert(assessment.Level) {
		c.publisher.PublishRiskAlert(r.Context(), "", "detect", assessment.Level, probability, "visual crack detection")
	}

	render.JSON(w, r, SuccessResponse(DetectResult{
		Detected:         probability > 0.5,
		Confidence:       utils.Round4(probability),
		CrackProbability: utils.Round4(probability),
		Source: DetectSource{
			Filename: header.Filename,
			Size:     size,
		},
		RiskAssessment: assessment,
	}))
}

// saveUpload 将上传内容写入临时路径并返回字节数
func (c *DetectController) saveUpload(file io.Reader, path string) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, file)
	if err != nil {
		return 0, fmt.Errorf("写入临时文件失败: %w", err)
	}
	return size, nil
}

// imageURLParam 提取image_url参数，查询参数和表单字段均可携带
func imageURLParam(r *http.Request) string {
	if v := r.URL.Query().Get("image_url"); v != "" {
		return v
	}
	return r.FormValue("image_url")
}

// uploadExt 从原始文件名提取扩展名，缺省为.jpg
func uploadExt(filename string) string {
	if ext := filepath.Ext(filename); ext != "" && !strings.ContainsAny(ext, "/\\") {
		return ext
	}
	return ".jpg"
}
