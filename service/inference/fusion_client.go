/*
 * @module service/inference/fusion_client
 * @description 融合引擎客户端，获取融合引擎的综合风险评估和空间风险网格
 * @architecture 适配器模式 - 封装外部融合引擎，提供统一的查询接口
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow HTTP查询 -> 原始文档保留 -> 结构化解析 -> 评估返回
 * @rules 融合引擎被视为不透明协作方，评估文档按原样保留供透传端点使用
 * @dependencies net/http, encoding/json, context
 * @refs service/inference/registry.go, api/controllers/risk_controller.go
 */

package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"slopeml-service/service/models"
)

// FusionClient 融合引擎客户端
type FusionClient struct {
	baseURL string
	client  *http.Client
}

// NewFusionClient 创建融合引擎客户端实例
func NewFusionClient(baseURL string) *FusionClient {
	return &FusionClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Health 探测融合引擎是否可用
func (c *FusionClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("融合引擎不可达: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("融合引擎健康检查失败: HTTP %d", resp.StatusCode)
	}
	return nil
}

// CurrentRiskAssessment 获取当前综合风险评估
// 返回结构化评估的同时保留原始文档，供/risk/current按原样透传
func (c *FusionClient) CurrentRiskAssessment(ctx context.Context) (*models.RiskAssessment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/risk/current", nil)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("查询融合引擎失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("融合引擎评估查询失败: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取评估响应失败: %w", err)
	}

	var assessment models.RiskAssessment
	if err := json.Unmarshal(body, &assessment); err != nil {
		return nil, fmt.Errorf("解析评估响应失败: %w", err)
	}
	assessment.Raw = json.RawMessage(body)
	return &assessment, nil
}

// RiskGrid 获取空间风险网格，结构不透明，按原样返回
func (c *FusionClient) RiskGrid(ctx context.Context) (models.RiskGrid, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/risk/grid", nil)
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("查询融合引擎失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("融合引擎网格查询失败: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取网格响应失败: %w", err)
	}
	return models.RiskGrid(body), nil
}
