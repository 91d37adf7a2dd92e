package services

import (
	"context"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"

	"gorm.io/gorm"
)

// DashboardStats is the instance-wide snapshot served on the dashboard.
type DashboardStats struct {
	Projects struct {
		Total    int64 `json:"total"`
		Active   int64 `json:"active"`
		Archived int64 `json:"archived"`
	} `json:"projects"`
	Documents struct {
		Total     int64 `json:"total"`
		InReview  int64 `json:"in_review"`
		Completed int64 `json:"completed"`
	} `json:"documents"`
	Segments struct {
		Total       int64            `json:"total"`
		ByStatus    map[string]int64 `json:"by_status"`
		AvgProgress int              `json:"avg_progress"`
	} `json:"segments"`
	MemoryEntries int64 `json:"memory_entries"`
	GlossaryTerms int64 `json:"glossary_terms"`
}

// DashboardService aggregates instance-wide statistics.
type DashboardService struct {
	db       *gorm.DB
	activity *ActivityLogService
}

func NewDashboardService(db *gorm.DB, activity *ActivityLogService) *DashboardService {
	return &DashboardService{db: db, activity: activity}
}

// Stats computes the dashboard snapshot.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}
	stats.Segments.ByStatus = make(map[string]int64)

	if err := db.Model(&models.Project{}).Count(&stats.Projects.Total).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	if err := db.Model(&models.Project{}).
		Where("status = ?", models.ProjectStatusActive).
		Count(&stats.Projects.Active).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	if err := db.Model(&models.Project{}).
		Where("status = ?", models.ProjectStatusArchived).
		Count(&stats.Projects.Archived).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	if err := db.Model(&models.Document{}).Count(&stats.Documents.Total).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	if err := db.Model(&models.Document{}).
		Where("status = ?", models.DocumentStatusInReview).
		Count(&stats.Documents.InReview).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	if err := db.Model(&models.Document{}).
		Where("status = ?", models.DocumentStatusCompleted).
		Count(&stats.Documents.Completed).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	var counts []segmentStatusCount
	if err := db.Model(&models.Segment{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	var weighted int64
	for _, c := range counts {
		stats.Segments.Total += c.Count
		stats.Segments.ByStatus[c.Status] = c.Count
		weighted += c.Count * int64(segmentProgressWeight[c.Status])
	}
	if stats.Segments.Total > 0 {
		stats.Segments.AvgProgress = int(weighted / stats.Segments.Total)
	}

	if err := db.Model(&models.TranslationMemoryEntry{}).Count(&stats.MemoryEntries).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	if err := db.Model(&models.GlossaryTerm{}).Count(&stats.GlossaryTerms).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return stats, nil
}

// RecentActivity exposes the newest activity entries for the dashboard feed.
func (s *DashboardService) RecentActivity(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return s.activity.Recent(ctx, "", limit)
}

// ProjectActivity exposes the newest activity entries of one project.
func (s *DashboardService) ProjectActivity(ctx context.Context, projectID string, limit int) ([]models.ActivityLog, error) {
	return s.activity.Recent(ctx, projectID, limit)
}
