package config

import (
	"fmt"
	"time"
)

// Config is the full static configuration.
type Config struct {
	Service      ServiceConfig               `yaml:"service" mapstructure:"service"`
	Logging      LoggingConfig               `yaml:"logging" mapstructure:"logging"`
	Telemetry    TelemetryConfig             `yaml:"telemetry" mapstructure:"telemetry"`
	Dependencies map[string]DependencyConfig `yaml:"dependencies" mapstructure:"dependencies"`
	Alerts       []AlertRuleConfig           `yaml:"alerts" mapstructure:"alerts"`
	Incidents    []ResponseConfig            `yaml:"incidents" mapstructure:"incidents"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Version     string `yaml:"version" mapstructure:"version"`
	Environment string `yaml:"environment" mapstructure:"environment"`
}

// ApplyDefaults applies default values to the service section.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
}

// Validate validates the service section.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("service.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	for _, v := range validEnvs {
		if c.Environment == v {
			return nil
		}
	}
	return fmt.Errorf("service.environment must be one of [development, staging, production] (got: %s)", c.Environment)
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Level   string `yaml:"level" mapstructure:"level"`
}

// ApplyDefaults applies default values to the logging section.
func (c *LoggingConfig) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate validates the logging section.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("logging.level must be one of [debug, info, warn, error] (got: %s)", c.Level)
}

// TelemetryConfig configures tracing and metrics.
type TelemetryConfig struct {
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// TracingConfig configures the tracing exporter.
type TracingConfig struct {
	Enabled   bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter  string  `yaml:"exporter" mapstructure:"exporter"`
	SamplePct float64 `yaml:"sample_pct" mapstructure:"sample_pct"`
}

// MetricsConfig configures the metrics exporter.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Exporter string `yaml:"exporter" mapstructure:"exporter"`
}

// ApplyDefaults applies default values to the telemetry section.
func (c *TelemetryConfig) ApplyDefaults() {
	if c.Tracing.Exporter == "" {
		c.Tracing.Exporter = "none"
	}
	if c.Tracing.Enabled && c.Tracing.SamplePct == 0 {
		c.Tracing.SamplePct = 1.0
	}
	if c.Metrics.Exporter == "" {
		c.Metrics.Exporter = "none"
	}
}

// DependencyConfig tunes the resilience stack guarding one dependency.
type DependencyConfig struct {
	Breaker   BreakerConfig    `yaml:"breaker" mapstructure:"breaker"`
	Bulkhead  BulkheadConfig   `yaml:"bulkhead" mapstructure:"bulkhead"`
	Retry     RetryConfig      `yaml:"retry" mapstructure:"retry"`
	RateLimit *RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Timeout   time.Duration    `yaml:"timeout" mapstructure:"timeout"`
}

// BreakerConfig tunes a circuit breaker.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	RecoveryTimeout  time.Duration `yaml:"recovery_timeout" mapstructure:"recovery_timeout"`
	SuccessThreshold int           `yaml:"success_threshold" mapstructure:"success_threshold"`
}

// BulkheadConfig tunes a bulkhead.
type BulkheadConfig struct {
	MaxConcurrent int           `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	QueueCapacity int           `yaml:"queue_capacity" mapstructure:"queue_capacity"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// RetryConfig tunes a retry policy.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay" mapstructure:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay" mapstructure:"max_delay"`
	Multiplier  float64       `yaml:"multiplier" mapstructure:"multiplier"`
	Jitter      bool          `yaml:"jitter" mapstructure:"jitter"`
}

// RateLimitConfig tunes the optional client-side rate limiter.
type RateLimitConfig struct {
	Rate  float64 `yaml:"rate" mapstructure:"rate"`
	Burst int     `yaml:"burst" mapstructure:"burst"`
}

// ApplyDefaults applies default values to a dependency section. Zero values
// defer to the resilience package defaults; only the per-call timeout gets a
// default here so every dependency is bounded.
func (c *DependencyConfig) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate validates a dependency section.
func (c *DependencyConfig) Validate(name string) error {
	if c.Breaker.FailureThreshold < 0 {
		return fmt.Errorf("dependencies.%s.breaker.failure_threshold must not be negative", name)
	}
	if c.Bulkhead.MaxConcurrent < 0 {
		return fmt.Errorf("dependencies.%s.bulkhead.max_concurrent must not be negative", name)
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("dependencies.%s.retry.max_attempts must not be negative", name)
	}
	if c.RateLimit != nil && c.RateLimit.Rate <= 0 {
		return fmt.Errorf("dependencies.%s.rate_limit.rate must be positive", name)
	}
	return nil
}

// AlertRuleConfig declares one error monitor rule. Empty match fields
// (code, dependency, class) match everything.
type AlertRuleConfig struct {
	Name       string        `yaml:"name" mapstructure:"name"`
	Severity   string        `yaml:"severity" mapstructure:"severity"`
	Code       string        `yaml:"code" mapstructure:"code"`
	Dependency string        `yaml:"dependency" mapstructure:"dependency"`
	Class      string        `yaml:"class" mapstructure:"class"`
	Threshold  int           `yaml:"threshold" mapstructure:"threshold"`
	Window     time.Duration `yaml:"window" mapstructure:"window"`
	Cooldown   time.Duration `yaml:"cooldown" mapstructure:"cooldown"`
}

// Validate validates one alert rule.
func (c *AlertRuleConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("alerts[].name is required")
	}
	if c.Threshold < 0 {
		return fmt.Errorf("alerts.%s.threshold must not be negative", c.Name)
	}
	return nil
}

// ResponseConfig declares one incident response. Empty match fields match
// everything; Actions names built-in actions (alert, open-circuit, scale,
// failover) in execution order.
type ResponseConfig struct {
	Name       string   `yaml:"name" mapstructure:"name"`
	Code       string   `yaml:"code" mapstructure:"code"`
	Dependency string   `yaml:"dependency" mapstructure:"dependency"`
	Class      string   `yaml:"class" mapstructure:"class"`
	Severity   string   `yaml:"severity" mapstructure:"severity"`
	Actions    []string `yaml:"actions" mapstructure:"actions"`
}

// Validate validates one response.
func (c *ResponseConfig) Validate() error {
	for _, action := range c.Actions {
		switch action {
		case "alert", "open-circuit", "scale", "failover":
		default:
			return fmt.Errorf("incidents.%s: unknown action %q", c.Name, action)
		}
	}
	return nil
}

// ApplyDefaults applies defaults across all sections.
func (c *Config) ApplyDefaults() {
	c.Service.ApplyDefaults()
	c.Logging.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	for name, dep := range c.Dependencies {
		dep.ApplyDefaults()
		c.Dependencies[name] = dep
	}
}

// Validate validates all sections.
func (c *Config) Validate() error {
	if err := c.Service.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	for name, dep := range c.Dependencies {
		if err := dep.Validate(name); err != nil {
			return err
		}
	}
	for i := range c.Alerts {
		if err := c.Alerts[i].Validate(); err != nil {
			return err
		}
	}
	for i := range c.Incidents {
		if err := c.Incidents[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
