package services

import (
	"context"
	"encoding/json"
	"fmt"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/permission"
	"lingoflow/internal/utils"

	"gorm.io/gorm"
)

// DocumentParams describes a document to ingest. Segments arrive pre-split;
// the engine does not parse file formats. An empty TargetLanguage fans the
// document out to every target language of the project.
type DocumentParams struct {
	ProjectID      string   `json:"project_id"`
	Name           string   `json:"name"`
	TargetLanguage string   `json:"target_language"`
	Segments       []string `json:"segments"`
}

// DocumentService manages documents and their translator assignment.
type DocumentService struct {
	db         *gorm.DB
	membership *MembershipService
	activity   *ActivityLogService
}

func NewDocumentService(db *gorm.DB, membership *MembershipService, activity *ActivityLogService) *DocumentService {
	return &DocumentService{db: db, membership: membership, activity: activity}
}

// Create ingests a document. One document row is created per resolved target
// language, each carrying the same pre-split segments in order, all in one
// transaction.
func (s *DocumentService) Create(ctx context.Context, actorID string, params DocumentParams) ([]models.Document, error) {
	if utils.IsBlank(params.Name) {
		return nil, app_errors.NewValidationError("document name cannot be empty")
	}
	if len(params.Segments) == 0 {
		return nil, app_errors.NewValidationError("a document needs at least one segment")
	}
	for i, text := range params.Segments {
		if utils.IsBlank(text) {
			return nil, app_errors.NewValidationError(fmt.Sprintf("segment %d is empty", i+1))
		}
	}

	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", params.ProjectID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	if project.Status == models.ProjectStatusArchived {
		return nil, app_errors.NewAPIError(app_errors.ErrForbidden, "project is archived")
	}

	role, err := s.membership.EffectiveRole(ctx, params.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: role}, permission.ActionCreateDocument, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionCreateDocument))
	}

	targets, err := resolveTargetLanguages(&project, params.TargetLanguage)
	if err != nil {
		return nil, err
	}

	var docs []models.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, target := range targets {
			doc := models.Document{
				ProjectID:      params.ProjectID,
				Name:           params.Name,
				SourceLanguage: project.SourceLanguage,
				TargetLanguage: target,
				Status:         models.DocumentStatusQueued,
				SegmentCount:   int64(len(params.Segments)),
			}
			if err := tx.Create(&doc).Error; err != nil {
				return app_errors.ParseDBError(err)
			}

			segments := make([]models.Segment, 0, len(params.Segments))
			for i, text := range params.Segments {
				segments = append(segments, models.Segment{
					DocumentID: doc.ID,
					Ordinal:    i + 1,
					SourceText: text,
					Status:     models.SegmentStatusUntranslated,
				})
			}
			if err := tx.CreateInBatches(segments, 200).Error; err != nil {
				return app_errors.ParseDBError(err)
			}

			if err := s.activity.recordTx(tx, models.ActivityLog{
				ProjectID:  params.ProjectID,
				ActorID:    actorID,
				Action:     "document.created",
				EntityType: "document",
				EntityID:   doc.ID,
				Detail:     fmt.Sprintf("%s (%s, %d segments)", doc.Name, target, len(segments)),
			}); err != nil {
				return err
			}
			docs = append(docs, doc)
		}
		_, err := recomputeProject(tx, params.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// resolveTargetLanguages expands an empty target into all project targets and
// validates an explicit one against them.
func resolveTargetLanguages(project *models.Project, target string) ([]string, error) {
	var projectTargets []string
	if err := json.Unmarshal(project.TargetLanguages, &projectTargets); err != nil {
		return nil, app_errors.NewAPIError(app_errors.ErrInternalServer, "project target languages are malformed")
	}
	if len(projectTargets) == 0 {
		return nil, app_errors.NewValidationError("project has no target languages")
	}
	if target == "" {
		return projectTargets, nil
	}
	for _, t := range projectTargets {
		if t == target {
			return []string{target}, nil
		}
	}
	return nil, app_errors.NewValidationError(fmt.Sprintf("%s is not a target language of this project", target))
}

// Get returns a document.
func (s *DocumentService) Get(ctx context.Context, documentID, actorID string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	role, err := s.membership.EffectiveRole(ctx, doc.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: role}, permission.ActionView, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionView))
	}
	return &doc, nil
}

// List returns a project's documents.
func (s *DocumentService) List(ctx context.Context, projectID, actorID string) ([]models.Document, error) {
	role, err := s.membership.EffectiveRole(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: role}, permission.ActionView, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionView))
	}

	var docs []models.Document
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&docs).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return docs, nil
}

// AssignTranslator sets or clears the document's assigned translator. While
// assigned, other translators cannot edit its segments; admins bypass the
// assignment.
func (s *DocumentService) AssignTranslator(ctx context.Context, documentID, actorID string, translatorID *string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	role, err := s.membership.EffectiveRole(ctx, doc.ProjectID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: role}, permission.ActionManageProject, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionManageProject))
	}

	if translatorID != nil {
		translatorRole, err := s.membership.EffectiveRole(ctx, doc.ProjectID, *translatorID)
		if err != nil {
			return nil, err
		}
		if translatorRole < permission.RoleTranslator {
			return nil, app_errors.NewValidationError("assignee must hold at least the translator role")
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Document{}).
			Where("id = ?", documentID).
			Update("translator_id", translatorID).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		detail := "unassigned"
		if translatorID != nil {
			detail = "assigned to " + *translatorID
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  doc.ProjectID,
			ActorID:    actorID,
			Action:     "document.assigned",
			EntityType: "document",
			EntityID:   documentID,
			Detail:     detail,
		})
	})
	if err != nil {
		return nil, err
	}
	doc.TranslatorID = translatorID
	return &doc, nil
}

// Delete removes a document and everything under it, then recomputes the
// project.
func (s *DocumentService) Delete(ctx context.Context, documentID, actorID string) error {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", documentID).Error; err != nil {
		return app_errors.ParseDBError(err)
	}
	role, err := s.membership.EffectiveRole(ctx, doc.ProjectID, actorID)
	if err != nil {
		return err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: role}, permission.ActionManageProject, nil) {
		return app_errors.NewUnauthorizedError(actorID, string(permission.ActionManageProject))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("segment_id IN (?)",
			tx.Model(&models.Segment{}).Select("id").Where("document_id = ?", documentID),
		).Delete(&models.ReviewComment{}).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		if err := tx.Where("document_id = ?", documentID).Delete(&models.Segment{}).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		if err := tx.Delete(&models.Document{}, "id = ?", documentID).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		if err := s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  doc.ProjectID,
			ActorID:    actorID,
			Action:     "document.deleted",
			EntityType: "document",
			EntityID:   documentID,
			Detail:     doc.Name,
		}); err != nil {
			return err
		}
		_, err := recomputeProject(tx, doc.ProjectID)
		return err
	})
}
