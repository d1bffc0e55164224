/*
 * @module service/cleanup/upload_cleanup_service
 * @description 上传目录清理服务，定期清理检测请求遗留的孤儿临时图像文件
 * @architecture 分层架构 - 业务服务层
 * @documentReference ai_docs/ml_gateway_requirements.md
 * @stateFlow 定时触发 -> 扫描上传目录 -> 删除过期文件 -> 记录结果
 * @rules 正常请求的临时文件在请求内即被删除，此处仅兜底清理进程异常退出留下的孤儿文件
 * @dependencies github.com/robfig/cron/v3, os, time
 * @refs api/controllers/detect_controller.go, service/init.go
 */

package cleanup

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRetention 孤儿临时文件的默认保留时长
const DefaultRetention = time.Hour

// UploadCleanupService 上传目录清理服务
type UploadCleanupService struct {
	uploadDir string
	retention time.Duration
	cron      *cron.Cron
	started   bool
}

// NewUploadCleanupService 创建上传目录清理服务实例，retention非正时使用默认值
func NewUploadCleanupService(uploadDir string, retention time.Duration) *UploadCleanupService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &UploadCleanupService{
		uploadDir: uploadDir,
		retention: retention,
		cron:      cron.New(),
	}
}

// CleanupStaleUploads 删除超过保留时长的临时文件并返回删除数量
func (s *UploadCleanupService) CleanupStaleUploads() (int, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return 0, fmt.Errorf("读取上传目录失败: %w", err)
	}

	cutoff := time.Now().Add(-s.retention)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(s.uploadDir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("删除孤儿临时文件失败", "path", path, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// StartScheduledCleanup 启动定时清理任务，每小时执行一次
func (s *UploadCleanupService) StartScheduledCleanup() error {
	if s.started {
		return fmt.Errorf("上传目录清理调度器已经启动")
	}

	_, err := s.cron.AddFunc("@hourly", func() {
		deleted, err := s.CleanupStaleUploads()
		if err != nil {
			slog.Error("定时清理上传目录失败", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("清理孤儿临时文件完成", "deleted_count", deleted, "retention", s.retention)
		}
	})
	if err != nil {
		return fmt.Errorf("添加定时任务失败: %w", err)
	}

	s.cron.Start()
	s.started = true
	return nil
}

// StopScheduledCleanup 停止定时清理任务
func (s *UploadCleanupService) StopScheduledCleanup() {
	if !s.started {
		return
	}
	s.cron.Stop()
	s.started = false
}
