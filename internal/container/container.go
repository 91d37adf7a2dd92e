// Package container wires the application together with dig.
package container

import (
	"lingoflow/internal/app"
	"lingoflow/internal/config"
	"lingoflow/internal/db"
	"lingoflow/internal/handler"
	"lingoflow/internal/provider"
	"lingoflow/internal/router"
	"lingoflow/internal/services"
	"lingoflow/internal/store"
	"lingoflow/internal/types"

	"go.uber.org/dig"
)

// BuildContainer creates and configures the dependency injection container.
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []any{
		// Configuration
		config.NewSystemSettingsManager,
		config.NewManager,
		func(sm *config.SystemSettingsManager) types.SystemSettingsProvider { return sm },

		// Infrastructure
		db.NewDB,
		newStore,

		// Provider
		provider.NewOpenAITranslator,
		func(t *provider.OpenAITranslator) provider.Translator { return t },
		services.NewDefaultConfidenceScorer,

		// Services
		services.NewMembershipService,
		services.NewTranslationMemoryService,
		services.NewGlossaryService,
		services.NewActivityLogService,
		services.NewSegmentService,
		services.NewDocumentService,
		services.NewProjectService,
		services.NewTeamService,
		services.NewTranslateService,
		services.NewDashboardService,

		// HTTP layer
		handler.NewServer,
		router.NewRouter,

		// Application
		app.NewApp,
	}

	for _, p := range providers {
		if err := container.Provide(p); err != nil {
			return nil, err
		}
	}

	return container, nil
}

// newStore selects the store backend: Redis when a DSN is configured,
// otherwise the in-memory store.
func newStore(configManager types.ConfigManager) (store.Store, error) {
	redisDSN := configManager.GetRedisDSN()
	if redisDSN == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewRedisStore(redisDSN)
}
