package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const EnvPrefix = "TAKEOFF"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Policy  PolicyConfig  `mapstructure:"policy"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type CatalogConfig struct {
	// Profile names a section of the profiles file; Driver/DSN apply when
	// it is empty.
	Profile             string        `mapstructure:"profile"`
	Driver              string        `mapstructure:"driver"`
	DSN                 string        `mapstructure:"dsn"`
	Seed                string        `mapstructure:"seed"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	DefaultWastePercent float64       `mapstructure:"default_waste_percent"`
}

type PolicyConfig struct {
	Partition   PartitionPolicyConfig   `mapstructure:"partition"`
	Ventilation VentilationPolicyConfig `mapstructure:"ventilation"`
}

type PartitionPolicyConfig struct {
	OpeningDeductionFactor float64       `mapstructure:"opening_deduction_factor"`
	DefaultStudSpacing     float64       `mapstructure:"default_stud_spacing"`
	DefaultDoor            OpeningConfig `mapstructure:"default_door"`
	DefaultWindow          OpeningConfig `mapstructure:"default_window"`
	PlausibilityMin        float64       `mapstructure:"plausibility_min"`
	PlausibilityMax        float64       `mapstructure:"plausibility_max"`
	ReferenceInsulationMM  int           `mapstructure:"reference_insulation_mm"`
}

type OpeningConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

type VentilationPolicyConfig struct {
	RegionalRatio       float64 `mapstructure:"regional_ratio"`
	DefaultRatio        float64 `mapstructure:"default_ratio"`
	DiscreteDensityCap  float64 `mapstructure:"discrete_density_cap"`
	PlacementDensityCap float64 `mapstructure:"placement_density_cap"`
}

// LoadConfig reads path (optional) over the built-in defaults. Every key can
// be overridden with a TAKEOFF_ environment variable, e.g.
// TAKEOFF_POLICY_VENTILATION_REGIONAL_RATIO.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse takeoff config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := domain.DefaultPolicy()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("catalog.profile", "")
	v.SetDefault("catalog.driver", "duckdb")
	v.SetDefault("catalog.dsn", "takeoff.db")
	v.SetDefault("catalog.seed", "")
	v.SetDefault("catalog.cache_ttl", "5m")
	v.SetDefault("catalog.default_waste_percent", def.DefaultWastePercent)

	p := def.Partition
	v.SetDefault("policy.partition.opening_deduction_factor", p.OpeningDeductionFactor)
	v.SetDefault("policy.partition.default_stud_spacing", p.DefaultStudSpacing)
	v.SetDefault("policy.partition.default_door.width", p.DefaultDoor.Width)
	v.SetDefault("policy.partition.default_door.height", p.DefaultDoor.Height)
	v.SetDefault("policy.partition.default_window.width", p.DefaultWindow.Width)
	v.SetDefault("policy.partition.default_window.height", p.DefaultWindow.Height)
	v.SetDefault("policy.partition.plausibility_min", p.PlausibilityMin.InexactFloat64())
	v.SetDefault("policy.partition.plausibility_max", p.PlausibilityMax.InexactFloat64())
	v.SetDefault("policy.partition.reference_insulation_mm", p.ReferenceInsulationMM)

	vent := def.Ventilation
	v.SetDefault("policy.ventilation.regional_ratio", vent.RegionalRatio)
	v.SetDefault("policy.ventilation.default_ratio", vent.DefaultRatio)
	v.SetDefault("policy.ventilation.discrete_density_cap", vent.DiscreteDensityCap)
	v.SetDefault("policy.ventilation.placement_density_cap", vent.PlacementDensityCap)
}

func (c *Config) Validate() error {
	p := c.Policy.Partition
	switch {
	case c.Catalog.CacheTTL < 0:
		return fmt.Errorf("catalog.cache_ttl must not be negative")
	case c.Catalog.DefaultWastePercent < 0:
		return fmt.Errorf("catalog.default_waste_percent must not be negative")
	case p.OpeningDeductionFactor < 0 || p.OpeningDeductionFactor > 1:
		return fmt.Errorf("policy.partition.opening_deduction_factor must be within [0, 1]")
	case p.DefaultStudSpacing <= 0:
		return fmt.Errorf("policy.partition.default_stud_spacing must be positive")
	case p.PlausibilityMin > p.PlausibilityMax:
		return fmt.Errorf("policy.partition.plausibility_min exceeds plausibility_max")
	case c.Policy.Ventilation.RegionalRatio <= 0 || c.Policy.Ventilation.DefaultRatio <= 0:
		return fmt.Errorf("policy.ventilation ratios must be positive")
	}
	return nil
}

// DomainPolicy converts the policy section into the calculators' policy.
func (c *Config) DomainPolicy() domain.Policy {
	p := c.Policy.Partition
	v := c.Policy.Ventilation
	return domain.Policy{
		DefaultWastePercent: c.Catalog.DefaultWastePercent,
		Partition: domain.PartitionPolicy{
			OpeningDeductionFactor: p.OpeningDeductionFactor,
			DefaultStudSpacing:     p.DefaultStudSpacing,
			DefaultDoor:            domain.Opening{Count: 1, Width: p.DefaultDoor.Width, Height: p.DefaultDoor.Height},
			DefaultWindow:          domain.Opening{Count: 1, Width: p.DefaultWindow.Width, Height: p.DefaultWindow.Height},
			PlausibilityMin:        decimal.NewFromFloat(p.PlausibilityMin),
			PlausibilityMax:        decimal.NewFromFloat(p.PlausibilityMax),
			ReferenceInsulationMM:  p.ReferenceInsulationMM,
		},
		Ventilation: domain.VentilationPolicy{
			RegionalRatio:       v.RegionalRatio,
			DefaultRatio:        v.DefaultRatio,
			DiscreteDensityCap:  v.DiscreteDensityCap,
			PlacementDensityCap: v.PlacementDensityCap,
		},
	}
}
