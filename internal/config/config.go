// Package config loads and validates application configuration. Values
// come from an optional YAML file and PAGESIFT_* environment variables,
// with spec-compatible defaults for every knob.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jonesrussell/pagesift/internal/logger"
)

// envPrefix namespaces environment variable overrides (PAGESIFT_APP_DEBUG, ...).
const envPrefix = "PAGESIFT"

// App represents application-level settings.
type App struct {
	// Name is the name of the application.
	Name string `yaml:"name" mapstructure:"name"`
	// Version is the version of the application.
	Version string `yaml:"version" mapstructure:"version"`
	// Environment is the application environment (development, staging, production).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Debug indicates whether debug mode is enabled.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// Validate checks if the application configuration is valid.
func (a *App) Validate() error {
	if a.Name == "" {
		return errors.New("application name must be specified")
	}
	switch a.Environment {
	case "development", "staging", "production":
		return nil
	default:
		return fmt.Errorf("invalid environment: %s", a.Environment)
	}
}

// Detector holds the structural pattern detector caps.
type Detector struct {
	// MaxGroups caps how many repeated signature groups the report keeps.
	MaxGroups int `yaml:"maxGroups" mapstructure:"maxGroups"`
	// SampleSize is the number of sample nodes serialized per group.
	SampleSize int `yaml:"sampleSize" mapstructure:"sampleSize"`
	// MaxPatternExamples caps examples kept per text-pattern category.
	MaxPatternExamples int `yaml:"maxPatternExamples" mapstructure:"maxPatternExamples"`
}

// Validate checks if the detector configuration is valid.
func (d *Detector) Validate() error {
	if d.MaxGroups <= 0 {
		return errors.New("detector maxGroups must be positive")
	}
	if d.SampleSize <= 0 {
		return errors.New("detector sampleSize must be positive")
	}
	if d.MaxPatternExamples <= 0 {
		return errors.New("detector maxPatternExamples must be positive")
	}
	return nil
}

// Thresholds holds the validation status cut-offs, in percent.
type Thresholds struct {
	// FieldGood is the minimum success rate for a GOOD field.
	FieldGood float64 `yaml:"fieldGood" mapstructure:"fieldGood"`
	// FieldNeedsWork is the minimum success rate for NEEDS_IMPROVEMENT.
	FieldNeedsWork float64 `yaml:"fieldNeedsWork" mapstructure:"fieldNeedsWork"`
	// OverallExcellent is the minimum overall score for EXCELLENT.
	OverallExcellent float64 `yaml:"overallExcellent" mapstructure:"overallExcellent"`
	// OverallGood is the minimum overall score for GOOD.
	OverallGood float64 `yaml:"overallGood" mapstructure:"overallGood"`
	// OverallNeedsWork is the minimum overall score for NEEDS_IMPROVEMENT.
	OverallNeedsWork float64 `yaml:"overallNeedsWork" mapstructure:"overallNeedsWork"`
}

// Validate checks if the thresholds are ordered sensibly.
func (t *Thresholds) Validate() error {
	if t.FieldNeedsWork > t.FieldGood {
		return errors.New("fieldNeedsWork threshold must not exceed fieldGood")
	}
	if t.OverallNeedsWork > t.OverallGood || t.OverallGood > t.OverallExcellent {
		return errors.New("overall thresholds must be ordered needsWork <= good <= excellent")
	}
	return nil
}

// Config represents the full application configuration.
type Config struct {
	App        App           `yaml:"app" mapstructure:"app"`
	Logging    logger.Config `yaml:"logging" mapstructure:"logging"`
	Detector   Detector      `yaml:"detector" mapstructure:"detector"`
	Thresholds Thresholds    `yaml:"thresholds" mapstructure:"thresholds"`
}

// Validate checks every configuration section.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Detector.Validate(); err != nil {
		return err
	}
	return c.Thresholds.Validate()
}

// Default returns the configuration with all defaults applied.
func Default() *Config {
	return &Config{
		App: App{
			Name:        "pagesift",
			Version:     "0.1.0",
			Environment: "development",
		},
		Logging: logger.Config{
			Level:    logger.DefaultLevel,
			Encoding: logger.DefaultEncoding,
		},
		Detector: Detector{
			MaxGroups:          60,
			SampleSize:         3,
			MaxPatternExamples: 30,
		},
		Thresholds: Thresholds{
			FieldGood:        80,
			FieldNeedsWork:   50,
			OverallExcellent: 90,
			OverallGood:      80,
			OverallNeedsWork: 60,
		},
	}
}

// Load reads configuration from the given file (optional) and the
// environment, layered over defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every default value with viper so env overrides
// merge onto a complete base.
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("app.name", def.App.Name)
	v.SetDefault("app.version", def.App.Version)
	v.SetDefault("app.environment", def.App.Environment)
	v.SetDefault("app.debug", def.App.Debug)
	v.SetDefault("logging.level", string(def.Logging.Level))
	v.SetDefault("logging.encoding", def.Logging.Encoding)
	v.SetDefault("logging.development", def.Logging.Development)
	v.SetDefault("detector.maxGroups", def.Detector.MaxGroups)
	v.SetDefault("detector.sampleSize", def.Detector.SampleSize)
	v.SetDefault("detector.maxPatternExamples", def.Detector.MaxPatternExamples)
	v.SetDefault("thresholds.fieldGood", def.Thresholds.FieldGood)
	v.SetDefault("thresholds.fieldNeedsWork", def.Thresholds.FieldNeedsWork)
	v.SetDefault("thresholds.overallExcellent", def.Thresholds.OverallExcellent)
	v.SetDefault("thresholds.overallGood", def.Thresholds.OverallGood)
	v.SetDefault("thresholds.overallNeedsWork", def.Thresholds.OverallNeedsWork)
}
