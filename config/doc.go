// Package config loads service configuration for dmnkit.
//
// It uses Viper to read a YAML config file and environment variables, and
// godotenv to pre-load .env files. Environment variables map onto nested
// keys by splitting on underscores, so FLOWABLE_DMN_ENABLED=false overrides
// flowable.dmn.enabled in the file.
//
// # Usage
//
//	cfg := autoconfigure.DefaultConfig()
//	err := config.LoadConfig("dmnkit", cfg, config.WithConfigFile("config.yml"))
package config
