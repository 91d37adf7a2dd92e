package types

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	IsMaster() bool
	GetAuthConfig() AuthConfig
	GetCORSConfig() CORSConfig
	GetPerformanceConfig() PerformanceConfig
	GetLogConfig() LogConfig
	GetDatabaseConfig() DatabaseConfig
	GetEffectiveServerConfig() ServerConfig
	GetRedisDSN() string
	Validate() error
	DisplayServerConfig()
	ReloadConfig() error
}

// SystemSettingsProvider exposes the current runtime settings to services
// without pulling in the full settings manager.
type SystemSettingsProvider interface {
	GetSettings() SystemSettings
}

// SystemSettings defines all runtime-tunable settings, stored in the DB.
type SystemSettings struct {
	// Basic
	AppUrl                string `json:"app_url" default:"http://localhost:3001" name:"App URL" category:"basic" desc:"Base URL clients use to reach this instance" validate:"required"`
	ActivityRetentionDays int    `json:"activity_retention_days" default:"30" name:"Activity retention days" category:"basic" desc:"How long activity log entries are kept" validate:"required,min=0"`

	// Translation provider
	ProviderBaseURL        string `json:"provider_base_url" default:"https://api.openai.com/v1" name:"Provider base URL" category:"provider" desc:"Base URL of the machine translation provider" validate:"required"`
	ProviderModel          string `json:"provider_model" default:"gpt-3.5-turbo" name:"Provider model" category:"provider" desc:"Model used for machine translation" validate:"required"`
	ProviderAPIKey         string `json:"provider_api_key" name:"Provider API key" category:"provider" desc:"API key for the machine translation provider"`
	ProviderTimeoutSeconds int    `json:"provider_timeout_seconds" default:"60" name:"Provider timeout" category:"provider" desc:"Timeout for a single provider call, in seconds" validate:"required,min=1"`

	// Workflow policy
	SimilarityFloor          int  `json:"similarity_floor" default:"70" name:"Similarity floor" category:"workflow" desc:"Minimum similarity for a translation memory match (0-100)" validate:"required,min=0,max=100"`
	DefaultMachineConfidence int  `json:"default_machine_confidence" default:"90" name:"Default machine confidence" category:"workflow" desc:"Confidence assigned when the provider reports none (0-100)" validate:"required,min=0,max=100"`
	DualControlReview        bool `json:"dual_control_review" default:"false" name:"Dual-control review" category:"workflow" desc:"Require the approving reviewer to differ from the translator"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port                    int    `json:"port"`
	Host                    string `json:"host"`
	IsMaster                bool   `json:"is_master"`
	ReadTimeout             int    `json:"read_timeout"`
	WriteTimeout            int    `json:"write_timeout"`
	IdleTimeout             int    `json:"idle_timeout"`
	GracefulShutdownTimeout int    `json:"graceful_shutdown_timeout"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Key string `json:"key"`
}

// CORSConfig represents CORS configuration
type CORSConfig struct {
	Enabled          bool     `json:"enabled"`
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// PerformanceConfig represents performance configuration
type PerformanceConfig struct {
	MaxConcurrentRequests int `json:"max_concurrent_requests"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `json:"level"`
	Format     string `json:"format"`
	EnableFile bool   `json:"enable_file"`
	FilePath   string `json:"file_path"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	DSN string `json:"dsn"`
}
