package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_DefaultsMatchDomainPolicy(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "duckdb", cfg.Catalog.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)

	got := cfg.DomainPolicy()
	want := domain.DefaultPolicy()
	assert.Equal(t, want.DefaultWastePercent, got.DefaultWastePercent)
	assert.Equal(t, want.Ventilation, got.Ventilation)
	assert.Equal(t, want.Partition.OpeningDeductionFactor, got.Partition.OpeningDeductionFactor)
	assert.Equal(t, want.Partition.DefaultDoor, got.Partition.DefaultDoor)
	assert.Equal(t, want.Partition.DefaultWindow, got.Partition.DefaultWindow)
	assert.True(t, want.Partition.PlausibilityMin.Equal(got.Partition.PlausibilityMin))
	assert.True(t, want.Partition.PlausibilityMax.Equal(got.Partition.PlausibilityMax))
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `server:
  port: "9090"
catalog:
  driver: pgx
  dsn: postgres://takeoff@localhost/catalog
  cache_ttl: 30s
policy:
  partition:
    opening_deduction_factor: 0.4
    default_door:
      width: 0.9
  ventilation:
    regional_ratio: 120
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "pgx", cfg.Catalog.Driver)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CacheTTL)

	policy := cfg.DomainPolicy()
	assert.Equal(t, 0.4, policy.Partition.OpeningDeductionFactor)
	assert.Equal(t, 0.9, policy.Partition.DefaultDoor.Width)
	assert.Equal(t, 2.10, policy.Partition.DefaultDoor.Height)
	assert.Equal(t, 120.0, policy.Ventilation.RegionalRatio)
	assert.Equal(t, 300.0, policy.Ventilation.DefaultRatio)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "policy:\n  ventilation:\n    regional_ratio: 120\n")
	t.Setenv("TAKEOFF_POLICY_VENTILATION_REGIONAL_RATIO", "180")
	t.Setenv("TAKEOFF_CATALOG_CACHE_TTL", "0s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 180.0, cfg.Policy.Ventilation.RegionalRatio)
	assert.Zero(t, cfg.Catalog.CacheTTL)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "server: [port: 1", "failed to read config file"},
		{"deduction above one", "policy:\n  partition:\n    opening_deduction_factor: 1.5\n", "opening_deduction_factor"},
		{"zero stud spacing", "policy:\n  partition:\n    default_stud_spacing: 0\n", "default_stud_spacing"},
		{"inverted band", "policy:\n  partition:\n    plausibility_min: 300\n", "plausibility_min"},
		{"negative ratio", "policy:\n  ventilation:\n    default_ratio: -1\n", "ratios must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "config.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_ExampleFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "..", "configs", "takeoff.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "configs/catalog.yaml", cfg.Catalog.Seed)
	assert.Equal(t, domain.DefaultPolicy().Ventilation, cfg.DomainPolicy().Ventilation)
	assert.Equal(t, domain.DefaultPolicy().Partition.DefaultDoor, cfg.DomainPolicy().Partition.DefaultDoor)
}
