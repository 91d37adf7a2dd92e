package handler

import (
	"strconv"

	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/response"

	"github.com/gin-gonic/gin"
)

// DashboardStats handles GET /api/dashboard/stats.
func (s *Server) DashboardStats(c *gin.Context) {
	stats, err := s.Dashboard.Stats(c.Request.Context())
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, stats)
}

// DashboardActivity handles GET /api/dashboard/activity.
func (s *Server) DashboardActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := s.Dashboard.RecentActivity(c.Request.Context(), limit)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, entries)
}

// QuickTranslateRequest defines the payload for an ad-hoc translation.
type QuickTranslateRequest struct {
	Text           string `json:"text" binding:"required"`
	SourceLanguage string `json:"source_language" binding:"required"`
	TargetLanguage string `json:"target_language" binding:"required"`
	Domain         string `json:"domain"`
}

// QuickTranslate handles POST /api/translate.
func (s *Server) QuickTranslate(c *gin.Context) {
	var req QuickTranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	result, err := s.TranslateService.QuickTranslate(c.Request.Context(),
		req.Text, req.SourceLanguage, req.TargetLanguage, req.Domain)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, result)
}
