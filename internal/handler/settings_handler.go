package handler

import (
	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/models"
	"lingoflow/internal/response"
	"lingoflow/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetSettings handles the GET /api/settings request. It retrieves all system
// settings, groups them by category, and returns them.
func (s *Server) GetSettings(c *gin.Context) {
	currentSettings := s.SettingsManager.GetSettings()
	settingsInfo := utils.GenerateSettingsMetadata(&currentSettings)

	// Group settings by category while preserving order
	categorized := make(map[string][]models.SystemSettingInfo)
	var categoryOrder []string
	for _, info := range settingsInfo {
		if _, exists := categorized[info.Category]; !exists {
			categoryOrder = append(categoryOrder, info.Category)
		}
		categorized[info.Category] = append(categorized[info.Category], info)
	}

	var responseData []models.CategorizedSettings
	for _, categoryName := range categoryOrder {
		responseData = append(responseData, models.CategorizedSettings{
			CategoryName: categoryName,
			Settings:     categorized[categoryName],
		})
	}

	response.Success(c, responseData)
}

// UpdateSettings handles the PUT /api/settings request.
func (s *Server) UpdateSettings(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}
	if len(updates) == 0 {
		response.Error(c, app_errors.NewValidationError("no settings provided"))
		return
	}

	if err := s.SettingsManager.UpdateSettings(updates); HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "settings.updated", nil)
}
