package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/services/config"
	"github.com/de-tools/takeoff/pkg/store/catalog/catalogtest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	cfg.Catalog.DSN = filepath.Join(t.TempDir(), "takeoff.db")
	cfg.Catalog.Seed = catalogtest.ReferenceCatalogPath()
	return cfg
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestOpen_SeedsDuckDBAndCalculates(t *testing.T) {
	ctx := testContext(t)
	cfg := testConfig(t)

	a, err := Open(ctx, cfg, "")
	require.NoError(t, err)
	defer a.Close()

	calc, err := a.Mapping.Calculate(ctx, domain.ProposalTypeRoofShingle, 100, domain.RoofParameters{RidgeLength: 10})
	require.NoError(t, err)
	assert.Equal(t, "10979.86", calc.Rollup.TotalPrice.StringFixed(2))

	available, err := a.Availability.Available(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 3)
}

func TestOpen_SkipsSeedWhenPopulated(t *testing.T) {
	ctx := testContext(t)
	cfg := testConfig(t)

	first, err := Open(ctx, cfg, "")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, cfg, "")
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.DB.QueryRow("SELECT COUNT(*) FROM compositions").Scan(&count))
	assert.Equal(t, 9, count)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Driver = "oracle"

	a, err := Open(testContext(t), cfg, "")
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestResolveSettings(t *testing.T) {
	ctx := context.Background()
	profiles := filepath.Join(t.TempDir(), ".takeoffcfg")
	require.NoError(t, os.WriteFile(profiles, []byte("[hosted]\ndriver = pgx\ndsn = postgres://catalog\n"), 0o600))

	cfg := testConfig(t)
	settings, err := ResolveSettings(ctx, cfg, profiles)
	require.NoError(t, err)
	assert.Equal(t, "duckdb", settings.Driver)
	assert.Equal(t, cfg.Catalog.DSN, settings.DSN)

	cfg.Catalog.Profile = "hosted"
	settings, err = ResolveSettings(ctx, cfg, profiles)
	require.NoError(t, err)
	assert.Equal(t, "pgx", settings.Driver)
	assert.Equal(t, "postgres://catalog", settings.DSN)

	cfg.Catalog.Profile = "missing"
	_, err = ResolveSettings(ctx, cfg, profiles)
	assert.ErrorContains(t, err, "profile missing not found")
}

func TestNewServices_ReferenceCatalog(t *testing.T) {
	s, err := catalogtest.Reference()
	require.NoError(t, err)

	services, err := NewServices(s, testConfig(t))
	require.NoError(t, err)

	report, err := services.Partition.SelfCheck(context.Background(), "ST-70")
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.ElementsMatch(t,
		[]domain.ProposalType{domain.ProposalTypeGeneric, domain.ProposalTypeRoofShingle, domain.ProposalTypeWaterproofing, domain.ProposalTypeCeiling},
		services.Parameters.ProposalTypes())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	_, err = NewLogger(config.LoggingConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
}
