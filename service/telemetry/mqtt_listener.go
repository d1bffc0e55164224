/*
 * @module service/telemetry/mqtt_listener
 * @description 传感器遥测监听器，订阅MQTT传感器读数主题并维护每个边坡的最新读数快照
 * @architecture 适配器模式 - 封装第三方MQTT客户端，提供统一的快照查询接口
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 连接建立 -> 主题订阅 -> 消息解析 -> 快照更新
 * @rules 遥测快照只作为查询端点的数据源，不改变/predict的缺省填零语义；连接失败只记录日志
 * @dependencies github.com/eclipse/paho.mqtt.golang, encoding/json, sync
 * @refs service/models/sensor.go, api/controllers/telemetry_controller.go
 */

package telemetry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"slopeml-service/service/models"
)

// ReadingSnapshot 单个边坡的最新遥测快照
type ReadingSnapshot struct {
	SlopeID    string               `json:"slopeId"`
	Reading    models.SensorReading `json:"reading"`
	ReceivedAt time.Time            `json:"received_at"`
}

// telemetryMessage MQTT遥测消息的wire格式
type telemetryMessage struct {
	SlopeID    string               `json:"slopeId"`
	SensorData models.SensorReading `json:"sensorData"`
}

// Listener 传感器遥测监听器
type Listener struct {
	client    mqtt.Client
	topic     string
	snapshots map[string]*ReadingSnapshot
	mutex     sync.RWMutex
}

// NewListener 创建遥测监听器，brokerURL为空时返回nil表示遥测通道未启用
func NewListener(brokerURL, topic string) *Listener {
	if brokerURL == "" {
		return nil
	}
	if topic == "" {
		topic = "slopes/+/telemetry"
	}

	listener := &Listener{
		topic:     topic,
		snapshots: make(map[string]*ReadingSnapshot),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(fmt.Sprintf("slopeml-service-%d", time.Now().UnixNano())).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second).
		SetOnConnectHandler(func(client mqtt.Client) {
			if token := client.Subscribe(listener.topic, 1, listener.handleMessage); token.Wait() && token.Error() != nil {
				slog.Error("订阅遥测主题失败", "topic", listener.topic, "error", token.Error())
				return
			}
			slog.Info("遥测主题订阅成功", "topic", listener.topic)
		})

	listener.client = mqtt.NewClient(opts)
	return listener
}

// Start 建立MQTT连接，失败只记录日志，不阻塞进程启动
func (l *Listener) Start() {
	if l == nil {
		return
	}
	if token := l.client.Connect(); token.Wait() && token.Error() != nil {
		slog.Warn("MQTT连接失败，遥测快照不可用", "error", token.Error())
	}
}

// Stop 断开MQTT连接
func (l *Listener) Stop() {
	if l == nil || l.client == nil {
		return
	}
	l.client.Disconnect(250)
}

// handleMessage 解析遥测消息并更新快照
func (l *Listener) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var payload telemetryMessage
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		slog.Warn("解析遥测消息失败", "topic", msg.Topic(), "error", err)
		return
	}
	if payload.SlopeID == "" {
		slog.Warn("遥测消息缺少slopeId", "topic", msg.Topic())
		return
	}

	l.mutex.Lock()
	l.snapshots[payload.SlopeID] = &ReadingSnapshot{
		SlopeID:    payload.SlopeID,
		Reading:    payload.SensorData,
		ReceivedAt: time.Now(),
	}
	l.mutex.Unlock()
}

// Latest 返回指定边坡的最新遥测快照，不存在时返回nil
func (l *Listener) Latest(slopeID string) *ReadingSnapshot {
	if l == nil {
		return nil
	}
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.snapshots[slopeID]
}
