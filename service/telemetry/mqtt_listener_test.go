/*
 * @module service/telemetry/mqtt_listener_test
 * @description 遥测监听器单元测试，通过伪造MQTT消息驱动快照更新
 * @architecture 测试层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 伪造消息 -> 回调处理 -> 快照查询
 * @rules 不依赖真实MQTT代理，消息直接注入回调
 * @dependencies testify
 * @refs service/telemetry/mqtt_listener.go
 */

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMessage 实现mqtt.Message接口，用于直接驱动消息回调
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func newTestListener() *Listener {
	return &Listener{snapshots: make(map[string]*ReadingSnapshot)}
}

func TestHandleMessage_UpdatesSnapshot(t *testing.T) {
	// ===== 合法遥测消息更新对应边坡的快照 =====
	listener := newTestListener()

	listener.handleMessage(nil, &fakeMessage{
		topic:   "slopes/slope_1/telemetry",
		payload: []byte(`{"slopeId":"slope_1","sensorData":{"disp_last":3.2,"pore_kpa":15.0}}`),
	})

	snapshot := listener.Latest("slope_1")
	require.NotNil(t, snapshot)
	assert.Equal(t, "slope_1", snapshot.SlopeID)
	assert.InDelta(t, 3.2, snapshot.Reading["disp_last"], 1e-9)
	assert.False(t, snapshot.ReceivedAt.IsZero())
}

func TestHandleMessage_LatestWins(t *testing.T) {
	// ===== 同一边坡的后续消息覆盖旧快照 =====
	listener := newTestListener()

	listener.handleMessage(nil, &fakeMessage{
		topic:   "slopes/slope_1/telemetry",
		payload: []byte(`{"slopeId":"slope_1","sensorData":{"disp_last":1.0}}`),
	})
	listener.handleMessage(nil, &fakeMessage{
		topic:   "slopes/slope_1/telemetry",
		payload: []byte(`{"slopeId":"slope_1","sensorData":{"disp_last":5.0}}`),
	})

	snapshot := listener.Latest("slope_1")
	require.NotNil(t, snapshot)
	assert.InDelta(t, 5.0, snapshot.Reading["disp_last"], 1e-9)
}

func TestHandleMessage_InvalidPayloadIgnored(t *testing.T) {
	// ===== 非法JSON和缺少slopeId的消息被丢弃 =====
	listener := newTestListener()

	listener.handleMessage(nil, &fakeMessage{
		topic:   "slopes/slope_1/telemetry",
		payload: []byte(`not json`),
	})
	listener.handleMessage(nil, &fakeMessage{
		topic:   "slopes/slope_1/telemetry",
		payload: []byte(`{"sensorData":{"disp_last":1.0}}`),
	})

	assert.Nil(t, listener.Latest("slope_1"))
}

func TestLatest_NilSafe(t *testing.T) {
	// ===== nil监听器查询返回nil =====
	var listener *Listener
	assert.Nil(t, listener.Latest("slope_1"))
}
