package services

import (
	"context"
	"encoding/json"
	"time"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/store"
	"lingoflow/internal/types"
	"lingoflow/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	activityChannel         = "lingoflow:activity"
	activityCleanupInterval = time.Hour
)

// ActivityLogService persists the audit trail of workflow mutations and fans
// recent entries out over the store's pub/sub channel. A background loop
// purges entries past the configured retention.
type ActivityLogService struct {
	db              *gorm.DB
	store           store.Store
	settingsManager types.SystemSettingsProvider
	stopChan        chan struct{}
}

func NewActivityLogService(db *gorm.DB, st store.Store, settingsManager types.SystemSettingsProvider) *ActivityLogService {
	return &ActivityLogService{
		db:              db,
		store:           st,
		settingsManager: settingsManager,
		stopChan:        make(chan struct{}),
	}
}

// recordTx writes an activity entry on the caller's transaction so the entry
// commits or rolls back with the mutation it describes. The pub/sub publish
// is best effort and never fails the mutation.
func (s *ActivityLogService) recordTx(tx *gorm.DB, entry models.ActivityLog) error {
	if err := tx.Create(&entry).Error; err != nil {
		return app_errors.ParseDBError(err)
	}
	if data, err := json.Marshal(entry); err == nil {
		if err := s.store.Publish(activityChannel, data); err != nil {
			logrus.WithError(err).Debug("failed to publish activity entry")
		}
	}
	return nil
}

// Record writes an activity entry outside any transaction.
func (s *ActivityLogService) Record(ctx context.Context, entry models.ActivityLog) error {
	return s.recordTx(s.db.WithContext(ctx), entry)
}

// Recent returns the newest activity entries, optionally scoped to one
// project.
func (s *ActivityLogService) Recent(ctx context.Context, projectID string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := s.db.WithContext(ctx).Model(&models.ActivityLog{})
	if projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var entries []models.ActivityLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return entries, nil
}

// Start launches the retention loop.
func (s *ActivityLogService) Start() {
	go func() {
		ticker := time.NewTicker(activityCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.cleanup()
			}
		}
	}()
	logrus.Debug("activity log cleanup started")
}

// Stop terminates the retention loop.
func (s *ActivityLogService) Stop(ctx context.Context) {
	close(s.stopChan)
	logrus.Debug("activity log cleanup stopped")
}

func (s *ActivityLogService) cleanup() {
	retentionDays := s.settingsManager.GetSettings().ActivityRetentionDays
	if retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	if result.Error != nil {
		if utils.IsTransientDBError(result.Error) {
			logrus.WithError(result.Error).Warn("activity log cleanup skipped on transient DB error")
			return
		}
		logrus.WithError(result.Error).Error("failed to clean up activity log")
		return
	}
	if result.RowsAffected > 0 {
		logrus.WithField("rows", result.RowsAffected).Debug("cleaned up expired activity entries")
	}
}
