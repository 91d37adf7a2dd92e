package handler

import (
	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/response"

	"github.com/gin-gonic/gin"
)

// CreateTeamRequest defines the payload for creating a team.
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateTeam handles POST /api/teams.
func (s *Server) CreateTeam(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	team, err := s.TeamService.Create(c.Request.Context(), req.Name, req.Description)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "team.created", team)
}

// ListTeams handles GET /api/teams.
func (s *Server) ListTeams(c *gin.Context) {
	teams, err := s.TeamService.List(c.Request.Context())
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, teams)
}

// GetTeam handles GET /api/teams/:id.
func (s *Server) GetTeam(c *gin.Context) {
	team, err := s.TeamService.Get(c.Request.Context(), c.Param("id"))
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, team)
}

// DeleteTeam handles DELETE /api/teams/:id.
func (s *Server) DeleteTeam(c *gin.Context) {
	err := s.TeamService.Delete(c.Request.Context(), c.Param("id"))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "team.deleted", nil)
}

// AddTeamMemberRequest defines the payload for adding a team member.
type AddTeamMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

// AddTeamMember handles POST /api/teams/:id/members.
func (s *Server) AddTeamMember(c *gin.Context) {
	var req AddTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	err := s.TeamService.AddMember(c.Request.Context(), c.Param("id"), req.UserID, req.Role)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "team.member_added", nil)
}

// RemoveTeamMember handles DELETE /api/teams/:id/members/:user_id.
func (s *Server) RemoveTeamMember(c *gin.Context) {
	err := s.TeamService.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("user_id"))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "team.member_removed", nil)
}
