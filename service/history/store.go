/*
 * @module service/history/store
 * @description 预测历史存储，在内存环形缓冲中保留最近的预测摘要供查询端点使用
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 预测完成 -> 记录追加 -> 容量裁剪 -> 倒序查询
 * @rules 仅保留内存态的最近记录，进程重启即清空，不做任何持久化
 * @dependencies sync, time
 * @refs service/models/prediction.go, api/controllers/predict_controller.go
 */

package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"slopeml-service/service/models"
)

// DefaultCapacity 默认保留的预测记录数量
const DefaultCapacity = 100

// Store 预测历史环形存储
type Store struct {
	records  []models.PredictionRecord
	capacity int
	mutex    sync.RWMutex
}

// NewStore 创建历史存储，capacity非正时使用默认容量
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		records:  make([]models.PredictionRecord, 0, capacity),
		capacity: capacity,
	}
}

// Record 追加一条预测摘要并返回记录ID，超出容量时淘汰最旧记录
func (s *Store) Record(slopeID, kind string, score float64, level string) string {
	record := models.PredictionRecord{
		ID:        uuid.New().String(),
		SlopeID:   slopeID,
		Kind:      kind,
		RiskScore: score,
		RiskLevel: level,
		CreatedAt: time.Now(),
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.records = append(s.records, record)
	if len(s.records) > s.capacity {
		s.records = s.records[len(s.records)-s.capacity:]
	}
	return record.ID
}

// Recent 返回最近的预测记录，新记录在前
func (s *Store) Recent() []models.PredictionRecord {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]models.PredictionRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		result = append(result, s.records[i])
	}
	return result
}
