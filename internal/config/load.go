package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name, e.g. LINGO_SERVER_PORT.
const EnvPrefix = "LINGO"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadAuth loads only the auth section, for tools that sign tokens without
// touching the database.
func LoadAuth() (*AuthConfig, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	// Nested keys are read one by one; UnmarshalKey skips bound env values
	cfg := AuthConfig{
		JWTSecret:            v.GetString("auth.jwt_secret"),
		TokenLifetimeMinutes: v.GetInt("auth.token_lifetime_minutes"),
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("auth config validation failed: %w", err)
	}

	return &cfg, nil
}

func newViper() (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config.yaml in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are only seen by Unmarshal once bound
	for _, key := range []string{"database.url", "cache.url", "auth.jwt_secret", "scheduler.messages_file"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("cache.stats_ttl_seconds", 300)

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("scheduler.starting_difficulty", 1)
	v.SetDefault("scheduler.max_due_words", 20)

	v.SetDefault("scheduler.window_size", 10)
	v.SetDefault("scheduler.streak_threshold", 3)
	v.SetDefault("scheduler.rate_min_window", 5)
	v.SetDefault("scheduler.rate_up_threshold", 0.85)
	v.SetDefault("scheduler.rate_down_threshold", 0.5)
	v.SetDefault("scheduler.level_up_min_rate", 0.8)
	v.SetDefault("scheduler.level_down_max_rate", 0.4)

	v.SetDefault("scheduler.min_ease_factor", 1.3)
	v.SetDefault("scheduler.first_interval_days", 1)
	v.SetDefault("scheduler.second_interval_days", 3)
	v.SetDefault("scheduler.mastered_min_reviews", 5)
	v.SetDefault("scheduler.mastered_min_accuracy", 0.9)
	v.SetDefault("scheduler.mastered_interval_days", 30)
}
