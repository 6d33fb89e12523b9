// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/gtdash/internal/model"
)

const (
	// MinYear is the earliest year accepted in configuration.
	MinYear = model.MinYear
	// MaxYear is the latest year accepted in configuration.
	MaxYear = model.MaxYear
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Dashboard DashboardConfig `toml:"dashboard"`
	Logging   LoggingConfig   `toml:"logging"`
}

// DashboardConfig maps the initial selection and view settings.
type DashboardConfig struct {
	CSV             *string  `toml:"csv"`
	Countries       []string `toml:"countries"`
	StartYear       *int     `toml:"start-year"`
	EndYear         *int     `toml:"end-year"`
	WeaponField     *string  `toml:"weapon-field"`
	GroupPercentage *int     `toml:"group-percentage"`
	AllCountries    *bool    `toml:"all-countries"`
}

// LoggingConfig maps logger settings.
type LoggingConfig struct {
	Level *string `toml:"level"`
	JSON  *bool   `toml:"json"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges for the fields that are set.
func (c FileConfig) Validate() error {
	d := c.Dashboard
	if d.GroupPercentage != nil && (*d.GroupPercentage < 1 || *d.GroupPercentage > 100) {
		return fmt.Errorf("group-percentage must be between 1 and 100, got %d", *d.GroupPercentage)
	}
	if d.WeaponField != nil && !model.WeaponField(*d.WeaponField).Valid() {
		return fmt.Errorf("weapon-field must be %q or %q, got %q", model.WeaponSubtype, model.WeaponType, *d.WeaponField)
	}
	if err := ValidateYear("start-year", d.StartYear); err != nil {
		return err
	}
	if err := ValidateYear("end-year", d.EndYear); err != nil {
		return err
	}
	if c.Logging.Level != nil {
		switch strings.ToLower(*c.Logging.Level) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("logging level must be debug, info, warn or error, got %q", *c.Logging.Level)
		}
	}
	return nil
}

// ValidateYear checks that an optional year lies within MinYear..MaxYear.
func ValidateYear(name string, year *int) error {
	if year == nil {
		return nil
	}
	if *year < MinYear || *year > MaxYear {
		return fmt.Errorf("%s must be between %d and %d, got %d", name, MinYear, MaxYear, *year)
	}
	return nil
}
