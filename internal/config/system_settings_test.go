package config

import (
	"testing"

	"lingoflow/internal/models"
	"lingoflow/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSettingsManager(t *testing.T) (*SystemSettingsManager, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		PrepareStmt: false,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.SystemSetting{}))

	st := store.NewMemoryStore()
	t.Cleanup(func() { st.Close() })

	sm := NewSystemSettingsManager()
	require.NoError(t, sm.EnsureSettingsInitialized(db))
	require.NoError(t, sm.Initialize(db, st))
	t.Cleanup(func() { sm.Stop(nil) })

	return sm, db
}

func TestDefaultSystemSettings(t *testing.T) {
	settings := defaultSystemSettings()

	assert.Equal(t, "http://localhost:3001", settings.AppUrl)
	assert.Equal(t, 30, settings.ActivityRetentionDays)
	assert.Equal(t, 70, settings.SimilarityFloor)
	assert.Equal(t, 90, settings.DefaultMachineConfidence)
	assert.False(t, settings.DualControlReview)
	assert.Equal(t, 60, settings.ProviderTimeoutSeconds)
}

func TestEnsureSettingsInitializedIsIdempotent(t *testing.T) {
	_, db := setupSettingsManager(t)

	var before int64
	require.NoError(t, db.Model(&models.SystemSetting{}).Count(&before).Error)
	assert.Greater(t, before, int64(0))

	sm := NewSystemSettingsManager()
	require.NoError(t, sm.EnsureSettingsInitialized(db))

	var after int64
	require.NoError(t, db.Model(&models.SystemSetting{}).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestEnsureSettingsInitializedKeepsExistingValues(t *testing.T) {
	_, db := setupSettingsManager(t)

	require.NoError(t, db.Model(&models.SystemSetting{}).
		Where("setting_key = ?", "similarity_floor").
		Update("setting_value", "85").Error)

	sm := NewSystemSettingsManager()
	require.NoError(t, sm.EnsureSettingsInitialized(db))

	var row models.SystemSetting
	require.NoError(t, db.First(&row, "setting_key = ?", "similarity_floor").Error)
	assert.Equal(t, "85", row.SettingValue)
}

func TestUpdateSettingsPersistsAndReloads(t *testing.T) {
	sm, db := setupSettingsManager(t)

	err := sm.UpdateSettings(map[string]any{
		"similarity_floor":    80,
		"dual_control_review": true,
	})
	require.NoError(t, err)

	settings := sm.GetSettings()
	assert.Equal(t, 80, settings.SimilarityFloor)
	assert.True(t, settings.DualControlReview)

	var row models.SystemSetting
	require.NoError(t, db.First(&row, "setting_key = ?", "similarity_floor").Error)
	assert.Equal(t, "80", row.SettingValue)
}

func TestValidateSettings(t *testing.T) {
	sm, _ := setupSettingsManager(t)

	assert.Error(t, sm.ValidateSettings(map[string]any{"no_such_key": 1}))
	assert.Error(t, sm.ValidateSettings(map[string]any{"similarity_floor": "high"}))
	assert.Error(t, sm.ValidateSettings(map[string]any{"similarity_floor": 101}))
	assert.Error(t, sm.ValidateSettings(map[string]any{"similarity_floor": -1}))
	assert.Error(t, sm.ValidateSettings(map[string]any{"dual_control_review": "yes"}))
	assert.Error(t, sm.ValidateSettings(map[string]any{"app_url": "  "}))

	// JSON numbers arrive as float64 and must be accepted for int fields.
	assert.NoError(t, sm.ValidateSettings(map[string]any{"similarity_floor": float64(75)}))
	assert.NoError(t, sm.ValidateSettings(map[string]any{"provider_api_key": ""}))
}

func TestUpdateSettingsRejectsInvalidUpdateAtomically(t *testing.T) {
	sm, _ := setupSettingsManager(t)

	err := sm.UpdateSettings(map[string]any{
		"similarity_floor": 150,
	})
	require.Error(t, err)
	assert.Equal(t, 70, sm.GetSettings().SimilarityFloor)
}
