// Package config provides configuration management: env-driven static
// configuration plus DB-backed runtime settings.
package config

import (
	"fmt"

	"lingoflow/internal/types"
	"lingoflow/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Constants holds validation bounds for static configuration.
var DefaultConstants = struct {
	MinPort        int
	MaxPort        int
	MinTimeout     int
	DefaultTimeout int
}{
	MinPort:        1,
	MaxPort:        65535,
	MinTimeout:     1,
	DefaultTimeout: 30,
}

// Config holds the full static configuration loaded from the environment.
type Config struct {
	Server      types.ServerConfig
	Auth        types.AuthConfig
	CORS        types.CORSConfig
	Performance types.PerformanceConfig
	Log         types.LogConfig
	Database    types.DatabaseConfig
	RedisDSN    string
}

// Manager implements types.ConfigManager.
type Manager struct {
	config          *Config
	settingsManager *SystemSettingsManager
}

// NewManager creates a configuration manager, loading .env when present.
func NewManager(settingsManager *SystemSettingsManager) (types.ConfigManager, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using system environment variables")
	}

	manager := &Manager{settingsManager: settingsManager}
	if err := manager.ReloadConfig(); err != nil {
		return nil, err
	}
	return manager, nil
}

// ReloadConfig re-reads configuration from the environment and validates it.
func (m *Manager) ReloadConfig() error {
	config := &Config{
		Server: types.ServerConfig{
			Port:                    utils.ParseInteger(utils.GetEnvOrDefault("PORT", "3001"), 3001),
			Host:                    utils.GetEnvOrDefault("HOST", "0.0.0.0"),
			IsMaster:                !utils.ParseBoolean(utils.GetEnvOrDefault("IS_SLAVE", "false"), false),
			ReadTimeout:             utils.ParseInteger(utils.GetEnvOrDefault("SERVER_READ_TIMEOUT", "60"), 60),
			WriteTimeout:            utils.ParseInteger(utils.GetEnvOrDefault("SERVER_WRITE_TIMEOUT", "600"), 600),
			IdleTimeout:             utils.ParseInteger(utils.GetEnvOrDefault("SERVER_IDLE_TIMEOUT", "120"), 120),
			GracefulShutdownTimeout: utils.ParseInteger(utils.GetEnvOrDefault("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", "10"), 10),
		},
		Auth: types.AuthConfig{
			Key: utils.GetEnvOrDefault("AUTH_KEY", ""),
		},
		CORS: types.CORSConfig{
			Enabled:          utils.ParseBoolean(utils.GetEnvOrDefault("ENABLE_CORS", "true"), true),
			AllowedOrigins:   utils.ParseArray(utils.GetEnvOrDefault("ALLOWED_ORIGINS", "*"), []string{"*"}),
			AllowedMethods:   utils.ParseArray(utils.GetEnvOrDefault("ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"), []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   utils.ParseArray(utils.GetEnvOrDefault("ALLOWED_HEADERS", "*"), []string{"*"}),
			AllowCredentials: utils.ParseBoolean(utils.GetEnvOrDefault("ALLOW_CREDENTIALS", "false"), false),
		},
		Performance: types.PerformanceConfig{
			MaxConcurrentRequests: utils.ParseInteger(utils.GetEnvOrDefault("MAX_CONCURRENT_REQUESTS", "100"), 100),
		},
		Log: types.LogConfig{
			Level:      utils.GetEnvOrDefault("LOG_LEVEL", "info"),
			Format:     utils.GetEnvOrDefault("LOG_FORMAT", "text"),
			EnableFile: utils.ParseBoolean(utils.GetEnvOrDefault("LOG_ENABLE_FILE", "false"), false),
			FilePath:   utils.GetEnvOrDefault("LOG_FILE_PATH", "./data/logs/app.log"),
		},
		Database: types.DatabaseConfig{
			DSN: utils.GetEnvOrDefault("DATABASE_DSN", "./data/lingoflow.db"),
		},
		RedisDSN: utils.GetEnvOrDefault("REDIS_DSN", ""),
	}

	m.config = config
	return m.Validate()
}

// Validate checks the static configuration for unusable values.
func (m *Manager) Validate() error {
	if m.config.Server.Port < DefaultConstants.MinPort || m.config.Server.Port > DefaultConstants.MaxPort {
		return fmt.Errorf("port must be between %d and %d", DefaultConstants.MinPort, DefaultConstants.MaxPort)
	}
	if m.config.Auth.Key == "" {
		return fmt.Errorf("AUTH_KEY is required")
	}
	if m.config.Performance.MaxConcurrentRequests < 1 {
		return fmt.Errorf("max concurrent requests cannot be less than 1")
	}
	return nil
}

// IsMaster returns whether this node runs master-only services.
func (m *Manager) IsMaster() bool {
	return m.config.Server.IsMaster
}

// GetAuthConfig returns authentication configuration.
func (m *Manager) GetAuthConfig() types.AuthConfig {
	return m.config.Auth
}

// GetCORSConfig returns CORS configuration.
func (m *Manager) GetCORSConfig() types.CORSConfig {
	return m.config.CORS
}

// GetPerformanceConfig returns performance configuration.
func (m *Manager) GetPerformanceConfig() types.PerformanceConfig {
	return m.config.Performance
}

// GetLogConfig returns logging configuration.
func (m *Manager) GetLogConfig() types.LogConfig {
	return m.config.Log
}

// GetDatabaseConfig returns database configuration.
func (m *Manager) GetDatabaseConfig() types.DatabaseConfig {
	return m.config.Database
}

// GetRedisDSN returns the Redis DSN, empty when running on the memory store.
func (m *Manager) GetRedisDSN() string {
	return m.RedisDSN()
}

// RedisDSN returns the raw configured value.
func (m *Manager) RedisDSN() string {
	return m.config.RedisDSN
}

// GetEffectiveServerConfig returns the server configuration.
func (m *Manager) GetEffectiveServerConfig() types.ServerConfig {
	return m.config.Server
}

// DisplayServerConfig logs a condensed view of the effective configuration.
func (m *Manager) DisplayServerConfig() {
	server := m.config.Server
	storeKind := "memory"
	if m.config.RedisDSN != "" {
		storeKind = "redis"
	}
	logrus.Info("Server configuration:")
	logrus.Infof("  Listen: %s:%d (master=%v)", server.Host, server.Port, server.IsMaster)
	logrus.Infof("  Store: %s", storeKind)
	logrus.Infof("  Log: level=%s format=%s file=%v", m.config.Log.Level, m.config.Log.Format, m.config.Log.EnableFile)
}
