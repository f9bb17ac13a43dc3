// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	matcherCfg, err := cfg.MatcherConfig()
//	aliases := cfg.Drivers.Aliases
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/eshaffer321/haulrecon/internal/domain/matcher"
	"github.com/eshaffer321/haulrecon/internal/domain/normalizer"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Reconciliation ReconciliationConfig `yaml:"reconciliation"`
	Drivers        DriversConfig        `yaml:"drivers"`
	Input          InputConfig          `yaml:"input"`
	Output         OutputConfig         `yaml:"output"`
	Observability  ObservabilityConfig  `yaml:"observability"`
}

// ReconciliationConfig holds matching settings
type ReconciliationConfig struct {
	Mode            string  `yaml:"mode"`             // "driver" or "reference"
	LookbackDays    int     `yaml:"lookback_days"`    // max day gap between load and payment
	AmountTolerance float64 `yaml:"amount_tolerance"` // amounts must differ by less than this
}

// DriversConfig holds the driver roster
type DriversConfig struct {
	// Aliases maps spellings found in schedules and bank descriptions to
	// canonical driver names, e.g. BIGRICH: Rich
	Aliases map[string]string `yaml:"aliases"`
}

// InputConfig describes where records come from
type InputConfig struct {
	Path              string `yaml:"path"`
	DedupeLoads       bool   `yaml:"dedupe_loads"`
	ExtractReferences bool   `yaml:"extract_references"`
}

// OutputConfig describes where the report goes ("" or "-" for stdout)
type OutputConfig struct {
	Path string `yaml:"path"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Reconciliation: ReconciliationConfig{
			Mode:            string(matcher.ModeDriver),
			LookbackDays:    90,
			AmountTolerance: 0.01,
		},
		Drivers: DriversConfig{
			Aliases: normalizer.DefaultAliases(),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// Load reads and parses the config file. Keys absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${RECON_INPUT})
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	aliases := cfg.Drivers.Aliases
	cfg.Drivers.Aliases = nil
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if len(cfg.Drivers.Aliases) == 0 {
		cfg.Drivers.Aliases = aliases
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := Default()

	cfg.Reconciliation.Mode = getEnv("RECON_MODE", cfg.Reconciliation.Mode)
	cfg.Reconciliation.LookbackDays = getEnvInt("RECON_LOOKBACK_DAYS", cfg.Reconciliation.LookbackDays)
	cfg.Reconciliation.AmountTolerance = getEnvFloat("RECON_AMOUNT_TOLERANCE", cfg.Reconciliation.AmountTolerance)
	cfg.Input.Path = getEnv("RECON_INPUT", "")
	cfg.Input.DedupeLoads = getEnv("RECON_DEDUPE_LOADS", "") == "true"
	cfg.Input.ExtractReferences = getEnv("RECON_EXTRACT_REFERENCES", "") == "true"
	cfg.Output.Path = getEnv("RECON_OUTPUT", "")
	cfg.Observability.Logging.Level = getEnv("LOG_LEVEL", "info")
	cfg.Observability.Logging.Format = getEnv("LOG_FORMAT", "text")

	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// MatcherConfig converts the reconciliation section to a matcher.Config
// and validates it.
func (c *Config) MatcherConfig() (matcher.Config, error) {
	mode, err := matcher.ParseMode(c.Reconciliation.Mode)
	if err != nil {
		return matcher.Config{}, err
	}

	mc := matcher.Config{
		Mode:            mode,
		LookbackDays:    c.Reconciliation.LookbackDays,
		AmountTolerance: decimal.NewFromFloat(c.Reconciliation.AmountTolerance),
	}
	if err := mc.Validate(); err != nil {
		return matcher.Config{}, err
	}
	return mc, nil
}

// Normalizer builds the driver name normalizer from the alias table.
func (c *Config) Normalizer() (*normalizer.Normalizer, error) {
	n, err := normalizer.New(c.Drivers.Aliases)
	if err != nil {
		return nil, fmt.Errorf("invalid driver aliases: %w", err)
	}
	return n, nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.Atoi(val); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvFloat retrieves a float environment variable with a fallback default
func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.ParseFloat(val, 64); err == nil {
			return result
		}
	}
	return fallback
}
