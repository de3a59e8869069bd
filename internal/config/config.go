package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// SRSConfig overrides the SM-2 defaults. Zero values keep the defaults.
type SRSConfig struct {
	DefaultEasinessFactor float64 `mapstructure:"default_easiness_factor" validate:"gte=0"`
	MinEasinessFactor     float64 `mapstructure:"min_easiness_factor" validate:"gte=0"`
}

// PlannerConfig tunes ranking and feasibility checks.
type PlannerConfig struct {
	BufferRatio    float64 `mapstructure:"buffer_ratio" validate:"gte=0,lte=5"`
	MaxActiveItems int     `mapstructure:"max_active_items" validate:"gte=0"`
}

// JobsConfig controls background jobs. A zero interval disables the job.
type JobsConfig struct {
	PriorityRefreshMinutes int `mapstructure:"priority_refresh_minutes" validate:"gte=0"`
}
