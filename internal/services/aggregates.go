// Package services implements the translation workflow engine: segments,
// documents, projects, translation memory, glossary, and membership.
package services

import (
	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"

	"gorm.io/gorm"
)

// Progress weight per segment status. A document's progress is the mean of
// its segments' weights; only fully reviewed documents reach 100.
var segmentProgressWeight = map[string]int{
	models.SegmentStatusUntranslated:      0,
	models.SegmentStatusMachineTranslated: 50,
	models.SegmentStatusHumanEdited:       80,
	models.SegmentStatusReviewed:          100,
}

// segmentStatusCount is one row of the per-status aggregation query.
type segmentStatusCount struct {
	Status string
	Count  int64
}

// recomputeDocument recalculates a document's progress and status from its
// segments. It must run on the same transaction as the segment mutation that
// triggered it so the aggregate is never observably stale.
func recomputeDocument(tx *gorm.DB, documentID string) (*models.Document, error) {
	var counts []segmentStatusCount
	if err := tx.Model(&models.Segment{}).
		Select("status, count(*) as count").
		Where("document_id = ?", documentID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	var total, weighted, awaitingReview, reviewed int64
	for _, c := range counts {
		total += c.Count
		weighted += c.Count * int64(segmentProgressWeight[c.Status])
		switch c.Status {
		case models.SegmentStatusHumanEdited:
			awaitingReview += c.Count
		case models.SegmentStatusReviewed:
			reviewed += c.Count
		}
	}

	progress := 0
	if total > 0 {
		progress = int(weighted / total)
	}

	status := models.DocumentStatusQueued
	switch {
	case total > 0 && reviewed == total:
		status = models.DocumentStatusCompleted
		progress = 100
	case awaitingReview > 0:
		status = models.DocumentStatusInReview
	case progress > 0:
		status = models.DocumentStatusInProgress
	}

	if err := tx.Model(&models.Document{}).
		Where("id = ?", documentID).
		Updates(map[string]any{
			"progress":      progress,
			"status":        status,
			"segment_count": total,
		}).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	var doc models.Document
	if err := tx.First(&doc, "id = ?", documentID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return &doc, nil
}

// recomputeProject recalculates a project's progress and status from its
// documents. Documents without segments are excluded from the mean so
// not-yet-ingested targets do not drag the project down. An archived project
// keeps its status; archiving is a manual state independent of progress.
func recomputeProject(tx *gorm.DB, projectID string) (*models.Project, error) {
	var project models.Project
	if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	var docs []models.Document
	if err := tx.Where("project_id = ?", projectID).Find(&docs).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	var sum, counted int
	started := false
	anyActive := false
	allCompleted := len(docs) > 0
	for _, doc := range docs {
		if doc.SegmentCount > 0 {
			sum += doc.Progress
			counted++
		}
		if doc.Status != models.DocumentStatusQueued {
			started = true
		}
		if doc.Status == models.DocumentStatusInProgress || doc.Status == models.DocumentStatusInReview {
			anyActive = true
		}
		if doc.Status != models.DocumentStatusCompleted {
			allCompleted = false
		}
	}

	progress := 0
	if counted > 0 {
		progress = sum / counted
	}

	status := project.Status
	if status != models.ProjectStatusArchived {
		switch {
		case allCompleted:
			status = models.ProjectStatusCompleted
		case anyActive || started:
			status = models.ProjectStatusActive
		default:
			status = models.ProjectStatusDraft
		}
	}

	if err := tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]any{
			"progress": progress,
			"status":   status,
		}).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	project.Progress = progress
	project.Status = status
	return &project, nil
}

// recomputeFromSegment rolls a segment mutation up through its document and
// project, all on the caller's transaction.
func recomputeFromSegment(tx *gorm.DB, documentID string) error {
	doc, err := recomputeDocument(tx, documentID)
	if err != nil {
		return err
	}
	_, err = recomputeProject(tx, doc.ProjectID)
	return err
}
