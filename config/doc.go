// Package config loads the static startup configuration for the resilience
// and observability stack.
//
// Configuration comes from a YAML file (viper) with environment variable
// overrides under the CALLOPS_ prefix, plus an optional .env file (godotenv)
// loaded before binding. All tuning is static: the file is read once at
// startup and the built components never reload.
//
// A loaded Config is the composition root. Build helpers turn the declarative
// sections into wired components:
//
//	cfg, err := config.Load("config.yml")
//	...
//	registry, err := cfg.BuildRegistry()
//	rules := cfg.BuildRules()
//	responses, err := cfg.BuildResponses(registry, emitter, config.Hooks{})
package config
