package services

import (
	"context"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/permission"
	"lingoflow/internal/utils"

	"gorm.io/gorm"
)

// TeamService manages teams and their members. Team composition feeds into
// every linked project's effective member list, so mutations invalidate
// those caches.
type TeamService struct {
	db         *gorm.DB
	membership *MembershipService
}

func NewTeamService(db *gorm.DB, membership *MembershipService) *TeamService {
	return &TeamService{db: db, membership: membership}
}

// Create makes a new team. Team names are unique.
func (s *TeamService) Create(ctx context.Context, name, description string) (*models.Team, error) {
	if utils.IsBlank(name) {
		return nil, app_errors.NewValidationError("team name cannot be empty")
	}
	team := models.Team{Name: name, Description: description}
	if err := s.db.WithContext(ctx).Create(&team).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return &team, nil
}

// Get returns a team with its members.
func (s *TeamService) Get(ctx context.Context, teamID string) (*models.Team, error) {
	var team models.Team
	if err := s.db.WithContext(ctx).Preload("Members").First(&team, "id = ?", teamID).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return &team, nil
}

// List returns all teams.
func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&teams).Error; err != nil {
		return nil, app_errors.ParseDBError(err)
	}
	return teams, nil
}

// AddMember puts a user on a team, or updates their role if already on it.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID, roleName string) error {
	role := permission.ParseRole(roleName)
	if role == permission.RoleNone || role == permission.RoleOwner {
		return app_errors.NewValidationError("invalid team member role: " + roleName)
	}

	var team models.Team
	if err := s.db.WithContext(ctx).First(&team, "id = ?", teamID).Error; err != nil {
		return app_errors.ParseDBError(err)
	}

	member := models.TeamMember{TeamID: teamID, UserID: userID, Role: roleName}
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Assign(models.TeamMember{Role: roleName}).
		FirstOrCreate(&member).Error
	if err != nil {
		return app_errors.ParseDBError(err)
	}

	s.invalidateLinkedProjects(ctx, teamID)
	return nil
}

// RemoveMember takes a user off a team.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID string) error {
	result := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{})
	if result.Error != nil {
		return app_errors.ParseDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return app_errors.NewNotFoundError("team member")
	}

	s.invalidateLinkedProjects(ctx, teamID)
	return nil
}

// Delete removes a team, its memberships, and its project links.
func (s *TeamService) Delete(ctx context.Context, teamID string) error {
	s.invalidateLinkedProjects(ctx, teamID)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&models.ProjectTeam{}).Error; err != nil {
			return app_errors.ParseDBError(err)
		}
		result := tx.Delete(&models.Team{}, "id = ?", teamID)
		if result.Error != nil {
			return app_errors.ParseDBError(result.Error)
		}
		if result.RowsAffected == 0 {
			return app_errors.NewNotFoundError("team")
		}
		return nil
	})
}

func (s *TeamService) invalidateLinkedProjects(ctx context.Context, teamID string) {
	var links []models.ProjectTeam
	if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Find(&links).Error; err != nil {
		return
	}
	for _, link := range links {
		s.membership.InvalidateProject(link.ProjectID)
	}
}
