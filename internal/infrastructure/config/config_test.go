package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eshaffer321/haulrecon/internal/domain/matcher"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_SCHEDULES", "/data/loads.json")
	path := writeConfig(t, `
reconciliation:
  mode: reference
  lookback_days: 60
drivers:
  aliases:
    BIG RICH: Rich
    T-BONE: Tony
input:
  path: ${TEST_SCHEDULES}
  dedupe_loads: true
  extract_references: true
observability:
  logging:
    level: debug
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "reference", cfg.Reconciliation.Mode)
	assert.Equal(t, 60, cfg.Reconciliation.LookbackDays)
	assert.Equal(t, 0.01, cfg.Reconciliation.AmountTolerance, "unset keys keep defaults")
	assert.Equal(t, map[string]string{"BIG RICH": "Rich", "T-BONE": "Tony"}, cfg.Drivers.Aliases)
	assert.Equal(t, "/data/loads.json", cfg.Input.Path)
	assert.True(t, cfg.Input.DedupeLoads)
	assert.True(t, cfg.Input.ExtractReferences)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, "text", cfg.Observability.Logging.Format)
}

func TestLoad_DefaultAliasesWhenNoneConfigured(t *testing.T) {
	path := writeConfig(t, "reconciliation:\n  mode: driver\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "Rich", cfg.Drivers.Aliases["BIGRICH"])
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "reconciliation: [not, a, map"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RECON_MODE", "reference")
	t.Setenv("RECON_LOOKBACK_DAYS", "30")
	t.Setenv("RECON_AMOUNT_TOLERANCE", "0.05")
	t.Setenv("RECON_INPUT", "in.json")
	t.Setenv("RECON_OUTPUT", "out.json")
	t.Setenv("LOG_FORMAT", "json")

	cfg := LoadFromEnv()

	assert.Equal(t, "reference", cfg.Reconciliation.Mode)
	assert.Equal(t, 30, cfg.Reconciliation.LookbackDays)
	assert.Equal(t, 0.05, cfg.Reconciliation.AmountTolerance)
	assert.Equal(t, "in.json", cfg.Input.Path)
	assert.Equal(t, "out.json", cfg.Output.Path)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("RECON_MODE", "")
	t.Setenv("RECON_LOOKBACK_DAYS", "not-a-number")

	cfg := LoadFromEnv()

	assert.Equal(t, "driver", cfg.Reconciliation.Mode)
	assert.Equal(t, 90, cfg.Reconciliation.LookbackDays)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
}

func TestLoadOrEnvWithPath_FallbackToEnv(t *testing.T) {
	t.Setenv("RECON_LOOKBACK_DAYS", "45")

	cfg := LoadOrEnvWithPath(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Equal(t, 45, cfg.Reconciliation.LookbackDays)
}

func TestMatcherConfig(t *testing.T) {
	cfg := Default()

	mc, err := cfg.MatcherConfig()

	require.NoError(t, err)
	assert.Equal(t, matcher.ModeDriver, mc.Mode)
	assert.Equal(t, 90, mc.LookbackDays)
	assert.True(t, mc.AmountTolerance.Equal(decimal.New(1, -2)))

	cfg.Reconciliation.Mode = "fuzzy"
	_, err = cfg.MatcherConfig()
	assert.Error(t, err)

	cfg = Default()
	cfg.Reconciliation.AmountTolerance = 0
	_, err = cfg.MatcherConfig()
	assert.Error(t, err)
}

func TestNormalizer(t *testing.T) {
	cfg := Default()
	n, err := cfg.Normalizer()
	require.NoError(t, err)
	assert.Equal(t, "Rich", n.Normalize("big rich"))

	cfg.Drivers.Aliases = map[string]string{"BIGRICH": "Rich", "BIG RICH": "Richard"}
	_, err = cfg.Normalizer()
	assert.Error(t, err)
}
