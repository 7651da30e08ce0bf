package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
}

// CacheConfig configures the optional Redis cache. An empty URL disables caching.
type CacheConfig struct {
	URL             string `mapstructure:"url" validate:"omitempty,url"`
	StatsTTLSeconds int    `mapstructure:"stats_ttl_seconds" validate:"gte=1"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// SchedulerConfig tunes the learning engines.
type SchedulerConfig struct {
	// StartingDifficulty is the level assigned to a student with no history.
	StartingDifficulty int `mapstructure:"starting_difficulty" validate:"required,min=1,max=5"`
	// MaxDueWords is the batch size used when a caller does not ask for one.
	MaxDueWords int `mapstructure:"max_due_words" validate:"required,gt=0,lte=500"`
	// MessagesFile optionally points at a YAML encouragement catalog.
	MessagesFile string `mapstructure:"messages_file" validate:"omitempty,filepath"`

	// Difficulty adaptation thresholds. Rates are fractions of the window.
	WindowSize        int     `mapstructure:"window_size" validate:"required,gte=1,lte=100"`
	StreakThreshold   int     `mapstructure:"streak_threshold" validate:"required,gte=1,ltefield=WindowSize"`
	RateMinWindow     int     `mapstructure:"rate_min_window" validate:"required,gte=1,ltefield=WindowSize"`
	RateUpThreshold   float64 `mapstructure:"rate_up_threshold" validate:"required,gt=0,lte=1"`
	RateDownThreshold float64 `mapstructure:"rate_down_threshold" validate:"required,gt=0,ltfield=RateUpThreshold"`
	LevelUpMinRate    float64 `mapstructure:"level_up_min_rate" validate:"required,gt=0,lte=1"`
	LevelDownMaxRate  float64 `mapstructure:"level_down_max_rate" validate:"required,gt=0,ltfield=LevelUpMinRate"`

	// Vocabulary scheduling. The ease floor cannot go below 1.3.
	MinEaseFactor        float64 `mapstructure:"min_ease_factor" validate:"required,gte=1.3,lt=2.5"`
	FirstIntervalDays    int     `mapstructure:"first_interval_days" validate:"required,gte=1"`
	SecondIntervalDays   int     `mapstructure:"second_interval_days" validate:"required,gtefield=FirstIntervalDays"`
	MasteredMinReviews   int     `mapstructure:"mastered_min_reviews" validate:"required,gte=1"`
	MasteredMinAccuracy  float64 `mapstructure:"mastered_min_accuracy" validate:"required,gt=0,lte=1"`
	MasteredIntervalDays int     `mapstructure:"mastered_interval_days" validate:"required,gte=1"`
}
