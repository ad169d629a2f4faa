package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderConfig holds optional loader overrides.
type LoaderConfig struct {
	EnvFile string // .env file path (optional; default ".env" when present)
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Load reads the YAML configuration at path, applies CALLOPS_-prefixed
// environment overrides (e.g. CALLOPS_LOGGING_LEVEL for logging.level), then
// applies defaults and validates.
func Load(path string, opts ...LoaderOption) (*Config, error) {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}

	// Load the .env file before binding env vars, best effort.
	envFile := lc.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("config: failed to load env file %s: %w", envFile, err)
		}
	} else if lc.EnvFile != "" {
		// An explicitly named env file must exist.
		return nil, fmt.Errorf("config: env file %s: %w", lc.EnvFile, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("CALLOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
