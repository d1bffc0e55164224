/*
 * @module service/inference/vision_client
 * @description 视觉裂缝检测模型客户端，将本地图像文件上传到外部视觉运行时并获取裂缝概率
 * @architecture 适配器模式 - 封装外部模型运行时，提供统一的检测接口
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 图像文件打开 -> multipart上传 -> 响应解析 -> 概率返回
 * @rules 视觉模型被视为不透明协作方，输入为图像文件路径，输出为[0,1]裂缝概率
 * @dependencies net/http, mime/multipart, encoding/json, context
 * @refs service/inference/registry.go, api/controllers/detect_controller.go
 */

package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// VisionClient 视觉裂缝检测客户端
type VisionClient struct {
	baseURL string
	client  *http.Client
}

// NewVisionClient 创建视觉模型客户端实例
func NewVisionClient(baseURL string) *VisionClient {
	return &VisionClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// crackResponse 裂缝检测响应体
type crackResponse struct {
	CrackProbability float64 `json:"crack_probability"`
}

// Health 探测视觉运行时是否可用
func (c *VisionClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("视觉模型运行时不可达: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("视觉模型运行时健康检查失败: HTTP %d", resp.StatusCode)
	}
	return nil
}

// PredictCrack 上传图像文件并返回裂缝概率
func (c *VisionClient) PredictCrack(ctx context.Context, imagePath string) (float64, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return 0, fmt.Errorf("打开图像文件失败: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filepath.Base(imagePath))
	if err != nil {
		return 0, fmt.Errorf("构建multipart请求失败: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return 0, fmt.Errorf("读取图像文件失败: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("构建multipart请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", &buf)
	if err != nil {
		return 0, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("发送检测请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("检测请求失败: HTTP %d", resp.StatusCode)
	}

	var result crackResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("解析检测响应失败: %w", err)
	}
	return result.CrackProbability, nil
}
