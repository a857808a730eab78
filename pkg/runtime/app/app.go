// Package app wires the catalog backend and calculators from configuration.
// Both the CLI and the web server start from Open.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/de-tools/takeoff/pkg/models/store"
	"github.com/de-tools/takeoff/pkg/services/availability"
	"github.com/de-tools/takeoff/pkg/services/catalog"
	"github.com/de-tools/takeoff/pkg/services/config"
	"github.com/de-tools/takeoff/pkg/services/mapping"
	"github.com/de-tools/takeoff/pkg/services/partition"
	"github.com/de-tools/takeoff/pkg/services/ventilation"
	"github.com/de-tools/takeoff/pkg/store/backend"
	catalogstore "github.com/de-tools/takeoff/pkg/store/catalog"
	"github.com/de-tools/takeoff/pkg/store/seed"
	"github.com/rs/zerolog"
)

type Services struct {
	Resolver     catalog.Resolver
	Mapping      mapping.Calculator
	Parameters   mapping.Registry
	Partition    partition.Calculator
	Ventilation  ventilation.Calculator
	Availability availability.Checker
}

// NewServices builds every calculator over one catalog store.
func NewServices(s catalogstore.Store, cfg *config.Config) (*Services, error) {
	policy := cfg.DomainPolicy()
	resolver := catalog.NewResolver(s, catalog.Options{
		TTL:                 cfg.Catalog.CacheTTL,
		DefaultWastePercent: policy.DefaultWastePercent,
	})

	mappingCalc, err := mapping.NewCalculator(resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to create mapping calculator: %w", err)
	}
	partitionCalc, err := partition.NewCalculator(s, policy.Partition)
	if err != nil {
		return nil, fmt.Errorf("failed to create partition calculator: %w", err)
	}
	ventilationCalc, err := ventilation.NewCalculator(s, policy.Ventilation)
	if err != nil {
		return nil, fmt.Errorf("failed to create ventilation calculator: %w", err)
	}
	checker, err := availability.NewChecker(resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to create availability checker: %w", err)
	}

	return &Services{
		Resolver:     resolver,
		Mapping:      mappingCalc,
		Parameters:   mapping.DefaultRegistry(),
		Partition:    partitionCalc,
		Ventilation:  ventilationCalc,
		Availability: checker,
	}, nil
}

type App struct {
	*Services
	DB     *sql.DB
	Config *config.Config
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// Open connects to the configured catalog, seeds it when it is empty and a
// seed file is configured, and builds the services.
func Open(ctx context.Context, cfg *config.Config, profilesPath string) (*App, error) {
	logger := zerolog.Ctx(ctx)

	settings, err := ResolveSettings(ctx, cfg, profilesPath)
	if err != nil {
		return nil, err
	}

	db, err := backend.Open(ctx, *settings)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("driver", settings.Driver).Msg("catalog database opened")

	s, err := catalogstore.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create catalog store: %w", err)
	}

	if cfg.Catalog.Seed != "" {
		if _, err := SeedIfEmpty(ctx, db, s, cfg.Catalog.Seed); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	services, err := NewServices(s, cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &App{Services: services, DB: db, Config: cfg}, nil
}

// ResolveSettings picks the catalog backend: the named profile from the
// profiles file when one is configured, otherwise driver and dsn from cfg.
func ResolveSettings(ctx context.Context, cfg *config.Config, profilesPath string) (*store.Settings, error) {
	if cfg.Catalog.Profile == "" {
		return &store.Settings{Driver: cfg.Catalog.Driver, DSN: cfg.Catalog.DSN}, nil
	}

	if profilesPath == "" {
		profilesPath = config.DefaultProfilesPath()
	}
	registry, err := config.NewRegistry(profilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", profilesPath, err)
	}
	settings, err := registry.GetSettings(ctx, cfg.Catalog.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog profile: %w", err)
	}
	return settings, nil
}

// SeedIfEmpty applies the seed file unless the catalog already lists a
// proposal type. It reports whether anything was written.
func SeedIfEmpty(ctx context.Context, db *sql.DB, s catalogstore.Store, path string) (bool, error) {
	types, err := s.ListProposalTypes(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if len(types) > 0 {
		zerolog.Ctx(ctx).Debug().Int("proposal_types", len(types)).Msg("catalog already populated, skipping seed")
		return false, nil
	}
	return true, Seed(ctx, db, path)
}

// Seed writes the fixtures in path into db.
func Seed(ctx context.Context, db *sql.DB, path string) error {
	fixtures, err := seed.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load seed %s: %w", path, err)
	}
	writer, err := seed.NewWriter(db)
	if err != nil {
		return err
	}
	return writer.Apply(ctx, fixtures)
}

// NewLogger builds the process logger from the logging section.
func NewLogger(cfg config.LoggingConfig, w io.Writer) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
