package services

import (
	"context"
	"encoding/json"
	"time"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/permission"
	"lingoflow/internal/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectParams describes a project to create. Validation happens in the
// single constructor call; an invalid project is never persisted.
type ProjectParams struct {
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	SourceLanguage  string     `json:"source_language"`
	TargetLanguages []string   `json:"target_languages"`
	DueDate         *time.Time `json:"due_date"`
}

// ProjectService manages the project lifecycle: creation, metadata updates,
// archival, and deletion.
type ProjectService struct {
	db         *gorm.DB
	membership *MembershipService
	activity   *ActivityLogService
}

func NewProjectService(db *gorm.DB, membership *MembershipService, activity *ActivityLogService) *ProjectService {
	return &ProjectService{db: db, membership: membership, activity: activity}
}

// Create validates and persists a new project with the caller as owner.
func (s *ProjectService) Create(ctx context.Context, actorID string, params ProjectParams) (*models.Project, error) {
	if utils.IsBlank(params.Name) {
		return nil, app_errors.NewValidationError("project name cannot be empty")
	}
	if utils.IsBlank(params.SourceLanguage) {
		return nil, app_errors.NewValidationError("source language cannot be empty")
	}
	if len(params.TargetLanguages) == 0 {
		return nil, app_errors.NewValidationError("at least one target language is required")
	}
	seen := make(map[string]bool, len(params.TargetLanguages))
	for _, target := range params.TargetLanguages {
		if utils.IsBlank(target) {
			return nil, app_errors.NewValidationError("target language cannot be empty")
		}
		if target == params.SourceLanguage {
			return nil, app_errors.NewValidationError("target language must differ from the source language")
		}
		if seen[target] {
			return nil, app_errors.NewValidationError("duplicate target language: " + target)
		}
		seen[target] = true
	}
	if actorID == "" {
		return nil, app_errors.NewValidationError("owner is required")
	}

	targets, err := json.Marshal(params.TargetLanguages)
	if err != nil {
		return nil, app_errors.NewAPIError(app_errors.ErrInternalServer, "failed to encode target languages")
	}

	project := models.Project{
		Name:            params.Name,
		Description:     params.Description,
		SourceLanguage:  params.SourceLanguage,
		TargetLanguages: datatypes.JSON(targets),
		Status:          models.ProjectStatusDraft,
		OwnerID:         actorID,
		DueDate:         params.DueDate,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  project.ID,
			ActorID:    actorID,
			Action:     "project.created",
			EntityType: "project",
			EntityID:   project.ID,
			Detail:     project.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Get returns a project the actor can view.
func (s *ProjectService) Get(ctx context.Context, projectID, actorID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", projectID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	role, err := s.membership.EffectiveRole(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: role}, permission.ActionView, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(permission.ActionView))
	}
	return &project, nil
}

// List returns every project the actor can view, through ownership, a direct
// grant, or a team link.
func (s *ProjectService) List(ctx context.Context, actorID string) ([]models.Project, error) {
	db := s.db.WithContext(ctx)

	grantProjects := db.Model(&models.ProjectGrant{}).
		Select("project_id").
		Where("user_id = ?", actorID)
	teamProjects := db.Model(&models.ProjectTeam{}).
		Select("project_teams.project_id").
		Joins("JOIN team_members ON team_members.team_id = project_teams.team_id").
		Where("team_members.user_id = ?", actorID)

	var projects []models.Project
	err := db.Where("owner_id = ? OR id IN (?) OR id IN (?)", actorID, grantProjects, teamProjects).
		Order("updated_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return projects, nil
}

// Update changes a project's metadata. Languages are frozen once set;
// changing them would orphan existing documents.
func (s *ProjectService) Update(ctx context.Context, projectID, actorID string, name, description *string, dueDate *time.Time) (*models.Project, error) {
	project, err := s.requireRole(ctx, projectID, actorID, permission.ActionManageProject)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if name != nil {
		if utils.IsBlank(*name) {
			return nil, app_errors.NewValidationError("project name cannot be empty")
		}
		updates["name"] = *name
	}
	if description != nil {
		updates["description"] = *description
	}
	if dueDate != nil {
		updates["due_date"] = *dueDate
	}
	if len(updates) == 0 {
		return project, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).Where("id = ?", projectID).Updates(updates).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  projectID,
			ActorID:    actorID,
			Action:     "project.updated",
			EntityType: "project",
			EntityID:   projectID,
		})
	})
	if err != nil {
		return nil, err
	}

	var updated models.Project
	if err := s.db.WithContext(ctx).First(&updated, "id = ?", projectID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return &updated, nil
}

// Archive freezes a project. Archived projects reject workflow mutations but
// stay readable.
func (s *ProjectService) Archive(ctx context.Context, projectID, actorID string) (*models.Project, error) {
	project, err := s.requireRole(ctx, projectID, actorID, permission.ActionArchiveProject)
	if err != nil {
		return nil, err
	}
	if project.Status == models.ProjectStatusArchived {
		return project, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			Update("status", models.ProjectStatusArchived).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  projectID,
			ActorID:    actorID,
			Action:     "project.archived",
			EntityType: "project",
			EntityID:   projectID,
		})
	})
	if err != nil {
		return nil, err
	}
	project.Status = models.ProjectStatusArchived
	return project, nil
}

// Unarchive reopens an archived project and recomputes its status from its
// documents.
func (s *ProjectService) Unarchive(ctx context.Context, projectID, actorID string) (*models.Project, error) {
	project, err := s.requireRole(ctx, projectID, actorID, permission.ActionArchiveProject)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusArchived {
		return nil, app_errors.NewAPIError(app_errors.ErrInvalidTransition, "project is not archived")
	}

	var reopened *models.Project
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			Update("status", models.ProjectStatusDraft).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		var txErr error
		reopened, txErr = recomputeProject(tx, projectID)
		if txErr != nil {
			return txErr
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  projectID,
			ActorID:    actorID,
			Action:     "project.unarchived",
			EntityType: "project",
			EntityID:   projectID,
		})
	})
	if err != nil {
		return nil, err
	}
	return reopened, nil
}

// Delete removes a project and everything under it. Owner only.
func (s *ProjectService) Delete(ctx context.Context, projectID, actorID string) error {
	_, err := s.requireRole(ctx, projectID, actorID, permission.ActionDeleteProject)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		docIDs := tx.Model(&models.Document{}).Select("id").Where("project_id = ?", projectID)
		segIDs := tx.Model(&models.Segment{}).Select("id").Where("document_id IN (?)", docIDs)

		if err := tx.Where("segment_id IN (?)", segIDs).Delete(&models.ReviewComment{}).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		if err := tx.Where("document_id IN (?)", docIDs).Delete(&models.Segment{}).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		for _, m := range []any{
			&models.Document{}, &models.ProjectGrant{}, &models.ProjectTeam{},
		} {
			if err := tx.Where("project_id = ?", projectID).Delete(m).Error; err != nil {
				return app_errors.ParseDBError(err)
			}
		}
		if err := tx.Delete(&models.Project{}, "id = ?", projectID).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		return s.activity.recordTx(tx, models.ActivityLog{
			ProjectID:  projectID,
			ActorID:    actorID,
			Action:     "project.deleted",
			EntityType: "project",
			EntityID:   projectID,
		})
	})
	if err != nil {
		return err
	}

	s.membership.InvalidateProject(projectID)
	return nil
}

// requireRole loads the project and checks the actor can perform the action.
func (s *ProjectService) requireRole(ctx context.Context, projectID, actorID string, action permission.Action) (*models.Project, error) {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", projectID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	role, err := s.membership.EffectiveRole(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: role}, action, nil) {
		return nil, app_errors.NewUnauthorizedError(actorID, string(action))
	}
	return &project, nil
}
