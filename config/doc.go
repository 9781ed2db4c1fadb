// Package config loads service configuration for entityhttp applications.
//
// It uses Viper to read a YAML (or JSON/TOML) file and godotenv to load a
// .env file, then lets environment variables override scalar values present
// in the file. Keys are matched case-insensitively with dots replaced by
// underscores, so logging.level is overridden by <PREFIX>_LOGGING_LEVEL.
//
// # Usage
//
//	var cfg MyConfig
//	err := config.LoadConfig("billing", &cfg, config.WithEnvPrefix("BILLING"))
package config
