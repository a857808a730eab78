package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/takeoff/pkg/models/store"
	"gopkg.in/ini.v1"
)

const ProfilesFile = ".takeoffcfg"

// Registry reads catalog backend profiles from an ini file:
//
//	[local]
//	driver = duckdb
//	dsn    = takeoff.db
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetSettings(ctx context.Context, profile string) (*store.Settings, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

// DefaultProfilesPath is $HOME/.takeoffcfg.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ProfilesFile
	}
	return filepath.Join(home, ProfilesFile)
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetSettings(_ context.Context, profile string) (*store.Settings, error) {
	if !cr.cfg.HasSection(profile) {
		return nil, fmt.Errorf("profile %s not found", profile)
	}
	section := cr.cfg.Section(profile)

	settings := &store.Settings{
		Driver: section.Key("driver").MustString("duckdb"),
		DSN:    section.Key("dsn").String(),
	}
	if settings.DSN == "" {
		return nil, fmt.Errorf("profile %s has no dsn", profile)
	}
	return settings, nil
}
