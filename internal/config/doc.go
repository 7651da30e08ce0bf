// Package config loads and validates application settings from environment
// variables (prefixed LINGO_) and an optional config.yaml, using viper for
// loading and validator for struct checks.
package config
