/*
 * @module service/inference/tabular_client
 * @description 表格风险模型客户端，封装对外部XGBoost评分运行时的HTTP调用
 * @architecture 适配器模式 - 封装外部模型运行时，提供统一的评分接口
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 特征行构建 -> HTTP评分请求 -> 响应解析 -> 评分返回
 * @rules 评分运行时被视为不透明协作方，输入为训练顺序的数值特征行，输出为[0,1]标量
 * @dependencies net/http, encoding/json, context
 * @refs service/inference/registry.go, api/controllers/predict_controller.go
 */

package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// TabularClient 表格模型评分客户端
type TabularClient struct {
	baseURL string
	client  *http.Client
}

// NewTabularClient 创建表格模型客户端实例
func NewTabularClient(baseURL string) *TabularClient {
	return &TabularClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// scoreRequest 评分请求体
type scoreRequest struct {
	Features []float64 `json:"features"`
}

// scoreResponse 评分响应体
type scoreResponse struct {
	Score float64 `json:"score"`
}

// Health 探测评分运行时是否可用
func (c *TabularClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("表格模型运行时不可达: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("表格模型运行时健康检查失败: HTTP %d", resp.StatusCode)
	}
	return nil
}

// Score 将训练顺序的特征行送入模型，返回[0,1]风险评分
func (c *TabularClient) Score(ctx context.Context, row []float64) (float64, error) {
	body, err := json.Marshal(scoreRequest{Features: row})
	if err != nil {
		return 0, fmt.Errorf("序列化评分请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("发送评分请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("评分请求失败: HTTP %d", resp.StatusCode)
	}

	var result scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("解析评分响应失败: %w", err)
	}
	return result.Score, nil
}
