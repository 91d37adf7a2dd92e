package handler

import (
	"time"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/response"
	"lingoflow/internal/services"

	"github.com/gin-gonic/gin"
)

// CreateProjectRequest defines the payload for creating a project.
type CreateProjectRequest struct {
	Name            string     `json:"name" binding:"required"`
	Description     string     `json:"description"`
	SourceLanguage  string     `json:"source_language" binding:"required"`
	TargetLanguages []string   `json:"target_languages" binding:"required"`
	DueDate         *time.Time `json:"due_date"`
}

// CreateProject handles POST /api/projects.
func (s *Server) CreateProject(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	project, err := s.ProjectService.Create(c.Request.Context(), actorID, services.ProjectParams{
		Name:            req.Name,
		Description:     req.Description,
		SourceLanguage:  req.SourceLanguage,
		TargetLanguages: req.TargetLanguages,
		DueDate:         req.DueDate,
	})
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "project.created", project)
}

// ListProjects handles GET /api/projects.
func (s *Server) ListProjects(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	projects, err := s.ProjectService.List(c.Request.Context(), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, projects)
}

// GetProject handles GET /api/projects/:id.
func (s *Server) GetProject(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	project, err := s.ProjectService.Get(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, project)
}

// UpdateProjectRequest defines the payload for updating project metadata.
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateProject handles PUT /api/projects/:id.
func (s *Server) UpdateProject(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	project, err := s.ProjectService.Update(c.Request.Context(), c.Param("id"), actorID, req.Name, req.Description, req.DueDate)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "project.updated", project)
}

// ArchiveProject handles POST /api/projects/:id/archive.
func (s *Server) ArchiveProject(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	project, err := s.ProjectService.Archive(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "project.archived", project)
}

// UnarchiveProject handles POST /api/projects/:id/unarchive.
func (s *Server) UnarchiveProject(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	project, err := s.ProjectService.Unarchive(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "project.unarchived", project)
}

// DeleteProject handles DELETE /api/projects/:id.
func (s *Server) DeleteProject(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	err := s.ProjectService.Delete(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "project.deleted", nil)
}

// TransferOwnershipRequest defines the payload for an ownership transfer.
type TransferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id" binding:"required"`
}

// TransferOwnership handles POST /api/projects/:id/transfer.
func (s *Server) TransferOwnership(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	err := s.Membership.TransferOwnership(c.Request.Context(), c.Param("id"), actorID, req.NewOwnerID)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "project.transferred", nil)
}

// ListMembers handles GET /api/projects/:id/members.
func (s *Server) ListMembers(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	members, err := s.Membership.EffectiveMembers(c.Request.Context(), c.Param("id"))
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, members)
}

// GrantRoleRequest defines the payload for granting a role.
type GrantRoleRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// GrantRole handles POST /api/projects/:id/members.
func (s *Server) GrantRole(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req GrantRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	err := s.Membership.Grant(c.Request.Context(), c.Param("id"), actorID, req.UserID, req.Role)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "member.granted", nil)
}

// RevokeRole handles DELETE /api/projects/:id/members/:user_id.
func (s *Server) RevokeRole(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	err := s.Membership.Revoke(c.Request.Context(), c.Param("id"), actorID, c.Param("user_id"))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "member.revoked", nil)
}

// LinkTeamRequest defines the payload for linking a team to a project.
type LinkTeamRequest struct {
	TeamID string `json:"team_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// LinkTeam handles POST /api/projects/:id/teams.
func (s *Server) LinkTeam(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req LinkTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	err := s.Membership.LinkTeam(c.Request.Context(), c.Param("id"), actorID, req.TeamID, req.Role)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "team.linked", nil)
}

// UnlinkTeam handles DELETE /api/projects/:id/teams/:team_id.
func (s *Server) UnlinkTeam(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	err := s.Membership.UnlinkTeam(c.Request.Context(), c.Param("id"), actorID, c.Param("team_id"))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "team.unlinked", nil)
}

// ProjectActivity handles GET /api/projects/:id/activity.
func (s *Server) ProjectActivity(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	// View permission is enforced by the project fetch.
	if _, err := s.ProjectService.Get(c.Request.Context(), c.Param("id"), actorID); HandleServiceError(c, err) {
		return
	}
	entries, err := s.Dashboard.ProjectActivity(c.Request.Context(), c.Param("id"), 50)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, entries)
}
