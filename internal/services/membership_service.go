package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/permission"
	"lingoflow/internal/store"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	membersCacheKeyPrefix = "lingoflow:project_members:"
	membersCacheTTL       = 30 * time.Second
)

// Member is one resolved entry of a project's effective member list.
type Member struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// MembershipService resolves effective roles from ownership, direct grants,
// and team links, and manages grants and ownership transfer.
type MembershipService struct {
	db    *gorm.DB
	store store.Store
}

func NewMembershipService(db *gorm.DB, st store.Store) *MembershipService {
	return &MembershipService{db: db, store: st}
}

// EffectiveRole computes the highest role userID holds on the project,
// considering ownership, direct grants, and every linked team. Users with no
// path to the project get RoleNone.
func (s *MembershipService) EffectiveRole(ctx context.Context, projectID, userID string) (permission.Role, error) {
	members, err := s.EffectiveMembers(ctx, projectID)
	if err != nil {
		return permission.RoleNone, err
	}
	for _, m := range members {
		if m.UserID == userID {
			return permission.ParseRole(m.Role), nil
		}
	}
	return permission.RoleNone, nil
}

// EffectiveMembers returns the deduplicated member list of a project. A user
// reachable through several paths appears once with their maximum role. The
// result is cached briefly; every grant or team mutation invalidates it.
func (s *MembershipService) EffectiveMembers(ctx context.Context, projectID string) ([]Member, error) {
	cacheKey := membersCacheKeyPrefix + projectID
	if data, err := s.store.Get(cacheKey); err == nil {
		var cached []Member
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	members, err := s.resolveMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(members); err == nil {
		if err := s.store.Set(cacheKey, data, membersCacheTTL); err != nil {
			logrus.WithError(err).Debug("failed to cache project members")
		}
	}
	return members, nil
}

func (s *MembershipService) resolveMembers(ctx context.Context, projectID string) ([]Member, error) {
	db := s.db.WithContext(ctx)

	var project models.Project
	if err := db.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}

	best := map[string]permission.Role{
		project.OwnerID: permission.RoleOwner,
	}

	var grants []models.ProjectGrant
	if err := db.Where("project_id = ?", projectID).Find(&grants).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	for _, g := range grants {
		role := permission.ParseRole(g.Role)
		best[g.UserID] = permission.Max(best[g.UserID], role)
	}

	// Team links contribute the link's role to every member of the team.
	type teamGrant struct {
		UserID string
		Role   string
	}
	var teamGrants []teamGrant
	if err := db.Model(&models.TeamMember{}).
		Select("team_members.user_id, project_teams.role").
		Joins("JOIN project_teams ON project_teams.team_id = team_members.team_id").
		Where("project_teams.project_id = ?", projectID).
		Scan(&teamGrants).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	for _, g := range teamGrants {
		role := permission.ParseRole(g.Role)
		best[g.UserID] = permission.Max(best[g.UserID], role)
	}

	members := make([]Member, 0, len(best))
	for userID, role := range best {
		members = append(members, Member{UserID: userID, Role: role.String()})
	}
	return members, nil
}

// Grant gives userID a role on the project, replacing any existing direct
// grant. The owner role is never grantable; it moves only through
// TransferOwnership. Actors cannot grant a role above their own.
func (s *MembershipService) Grant(ctx context.Context, projectID, actorID, userID, roleName string) error {
	role := permission.ParseRole(roleName)
	if role == permission.RoleNone || role == permission.RoleOwner {
		return app_errors.NewValidationError(fmt.Sprintf("invalid grantable role: %s", roleName))
	}

	actorRole, err := s.EffectiveRole(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: actorRole}, permission.ActionManageMembers, nil) {
		return app_errors.NewUnauthorizedError(actorID, string(permission.ActionManageMembers))
	}
	if role > actorRole {
		return app_errors.NewUnauthorizedError(actorID, string(permission.ActionManageMembers))
	}

	grant := models.ProjectGrant{ProjectID: projectID, UserID: userID, Role: roleName}
	err = s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Assign(models.ProjectGrant{Role: roleName}).
		FirstOrCreate(&grant).Error
	if err != nil {
		return app_errors.ParseDBError(err)
	}

	s.invalidateMembers(projectID)
	return nil
}

// Revoke removes a direct grant. Ownership cannot be revoked, and an actor
// cannot revoke a grant above their own role.
func (s *MembershipService) Revoke(ctx context.Context, projectID, actorID, userID string) error {
	var project models.Project
	if err := s.db.WithContext(ctx).First(&project, "id = ?", projectID).Error; err != nil {
		return app_errors.ParseDBError(err)
	}
	if project.OwnerID == userID {
		return app_errors.NewAPIError(app_errors.ErrForbidden, "project ownership cannot be revoked; transfer it instead")
	}

	actorRole, err := s.EffectiveRole(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: actorRole}, permission.ActionManageMembers, nil) {
		return app_errors.NewUnauthorizedError(actorID, string(permission.ActionManageMembers))
	}

	var grant models.ProjectGrant
	if err := s.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&grant).Error; err != nil {
		return app_errors.ParseDBError(err)
	}
	if permission.ParseRole(grant.Role) > actorRole {
		return app_errors.NewUnauthorizedError(actorID, string(permission.ActionManageMembers))
	}

	if err := s.db.WithContext(ctx).Delete(&grant).Error; err != nil {
		return app_errors.ParseDBError(err)
	}

	s.invalidateMembers(projectID)
	return nil
}

// TransferOwnership moves a project to a new owner. Only the current owner
// may transfer; the old owner keeps an admin grant so they are not locked
// out of their own history.
func (s *MembershipService) TransferOwnership(ctx context.Context, projectID, actorID, newOwnerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ?", projectID).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		if project.OwnerID != actorID {
			return app_errors.NewUnauthorizedError(actorID, string(permission.ActionTransferOwnership))
		}
		if newOwnerID == "" || newOwnerID == actorID {
			return app_errors.NewValidationError("new owner must be a different user")
		}

		if err := tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			Update("owner_id", newOwnerID).Error; err != nil {
			return app_errors.ParseDBError(err)
		}

		// Any direct grant the new owner had is now shadowed by ownership.
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, newOwnerID).
			Delete(&models.ProjectGrant{}).Error; err != nil {
			return app_errors.ParseDBError(err)
		}

		grant := models.ProjectGrant{ProjectID: projectID, UserID: actorID, Role: permission.RoleAdmin.String()}
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, actorID).
			Assign(models.ProjectGrant{Role: permission.RoleAdmin.String()}).
			FirstOrCreate(&grant).Error; err != nil {
			return app_errors.ParseDBError(err)
		}

		s.invalidateMembers(projectID)
		return nil
	})
}

// LinkTeam attaches a team to a project with a role applied to all its
// members.
func (s *MembershipService) LinkTeam(ctx context.Context, projectID, actorID, teamID, roleName string) error {
	role := permission.ParseRole(roleName)
	if role == permission.RoleNone || role == permission.RoleOwner {
		return app_errors.NewValidationError(fmt.Sprintf("invalid grantable role: %s", roleName))
	}

	actorRole, err := s.EffectiveRole(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: actorRole}, permission.ActionManageMembers, nil) {
		return app_errors.NewUnauthorizedError(actorID, string(permission.ActionManageMembers))
	}

	var team models.Team
	if err := s.db.WithContext(ctx).First(&team, "id = ?", teamID).Error; err != nil {
		return app_errors.ParseDBError(err)
	}

	link := models.ProjectTeam{ProjectID: projectID, TeamID: teamID, Role: roleName}
	err = s.db.WithContext(ctx).
		Where("project_id = ? AND team_id = ?", projectID, teamID).
		Assign(models.ProjectTeam{Role: roleName}).
		FirstOrCreate(&link).Error
	if err != nil {
		return app_errors.ParseDBError(err)
	}

	s.invalidateMembers(projectID)
	return nil
}

// UnlinkTeam detaches a team from a project.
func (s *MembershipService) UnlinkTeam(ctx context.Context, projectID, actorID, teamID string) error {
	actorRole, err := s.EffectiveRole(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !permission.Can(permission.Actor{ID: actorID, Role: actorRole}, permission.ActionManageMembers, nil) {
		return app_errors.NewUnauthorizedError(actorID, string(permission.ActionManageMembers))
	}

	result := s.db.WithContext(ctx).
		Where("project_id = ? AND team_id = ?", projectID, teamID).
		Delete(&models.ProjectTeam{})
	if result.Error != nil {
		return app_errors.ParseDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return app_errors.NewNotFoundError("team link")
	}

	s.invalidateMembers(projectID)
	return nil
}

// invalidateMembers drops the cached member list after a grant or team
// mutation. InvalidateProject is the exported variant used by the team
// service when team composition changes.
func (s *MembershipService) invalidateMembers(projectID string) {
	if err := s.store.Delete(membersCacheKeyPrefix + projectID); err != nil {
		logrus.WithError(err).Debug("failed to invalidate project members cache")
	}
}

func (s *MembershipService) InvalidateProject(projectID string) {
	s.invalidateMembers(projectID)
}
