// Package app provides the main application logic and lifecycle management.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"lingoflow/internal/config"
	"lingoflow/internal/i18n"
	"lingoflow/internal/models"
	"lingoflow/internal/services"
	"lingoflow/internal/store"
	"lingoflow/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/dig"
	"gorm.io/gorm"
)

// App holds all services and manages the application lifecycle.
type App struct {
	engine          *gin.Engine
	configManager   types.ConfigManager
	settingsManager *config.SystemSettingsManager
	activityService *services.ActivityLogService
	storage         store.Store
	db              *gorm.DB
	httpServer      *http.Server
}

// AppParams defines the dependencies for the App.
type AppParams struct {
	dig.In
	Engine          *gin.Engine
	ConfigManager   types.ConfigManager
	SettingsManager *config.SystemSettingsManager
	ActivityService *services.ActivityLogService
	Storage         store.Store
	DB              *gorm.DB
}

// NewApp is the constructor for App, with dependencies injected by dig.
func NewApp(params AppParams) *App {
	return &App{
		engine:          params.Engine,
		configManager:   params.ConfigManager,
		settingsManager: params.SettingsManager,
		activityService: params.ActivityService,
		storage:         params.Storage,
		db:              params.DB,
	}
}

// Start runs the application, it is a non-blocking call.
func (a *App) Start() error {
	if err := i18n.Init(); err != nil {
		return fmt.Errorf("failed to initialize i18n: %w", err)
	}
	logrus.Info("i18n initialized successfully.")

	if a.configManager.IsMaster() {
		logrus.Info("Starting as Master Node.")

		if err := a.db.AutoMigrate(
			&models.SystemSetting{},
			&models.Project{},
			&models.Document{},
			&models.Segment{},
			&models.ReviewComment{},
			&models.TranslationMemoryEntry{},
			&models.GlossaryTerm{},
			&models.Team{},
			&models.TeamMember{},
			&models.ProjectGrant{},
			&models.ProjectTeam{},
			&models.ActivityLog{},
		); err != nil {
			return fmt.Errorf("database auto-migration failed: %w", err)
		}
		logrus.Info("Database auto-migration completed.")

		if err := a.settingsManager.EnsureSettingsInitialized(a.db); err != nil {
			return fmt.Errorf("failed to initialize system settings: %w", err)
		}
		logrus.Info("System settings initialized in DB.")
	} else {
		logrus.Info("Starting as Slave Node.")
	}

	if err := a.settingsManager.Initialize(a.db, a.storage); err != nil {
		return fmt.Errorf("failed to load system settings: %w", err)
	}

	a.activityService.Start()

	a.configManager.DisplayServerConfig()

	serverConfig := a.configManager.GetEffectiveServerConfig()
	a.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:        a.engine,
		ReadTimeout:    time.Duration(serverConfig.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(serverConfig.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(serverConfig.IdleTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.Infof("LingoFlow server started successfully")
		logrus.Infof("Server address: http://%s:%d", serverConfig.Host, serverConfig.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server startup failed: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the application.
func (a *App) Stop(ctx context.Context) {
	logrus.Info("Shutting down server...")

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			logrus.Errorf("HTTP server shutdown error: %v", err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.activityService.Stop(ctx)
	}()
	go func() {
		defer wg.Done()
		a.settingsManager.Stop(ctx)
	}()
	wg.Wait()

	if err := a.storage.Close(); err != nil {
		logrus.Errorf("Storage close error: %v", err)
	}

	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("Database close error: %v", err)
		}
	}

	logrus.Info("Server exited gracefully")
}
