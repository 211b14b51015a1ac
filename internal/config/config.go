// Package config reads schedtrace settings from .schedtrace.yaml,
// SCHEDTRACE_* environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/schedtrace/internal/domain"
	"github.com/spf13/viper"
)

const EnvPrefix = "SCHEDTRACE"

// Config holds all runtime configuration.
type Config struct {
	DBPath           string            `mapstructure:"db_path"`
	Catalog          string            `mapstructure:"catalog"`
	EditPolicy       domain.EditPolicy `mapstructure:"edit_policy"`
	LogUseCases      bool              `mapstructure:"log_use_cases"`
	SentinelTaskName string            `mapstructure:"sentinel_task_name"`
	PlaybackTickMs   int               `mapstructure:"playback_tick_ms"`
	PlaybackSpeed    int               `mapstructure:"playback_speed"`
}

// DefaultDBPath is ~/.schedtrace/schedtrace.db, or a relative path when the
// home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".schedtrace", "schedtrace.db")
	}
	return filepath.Join(home, ".schedtrace", "schedtrace.db")
}

// New returns a viper instance bound to the config file and environment.
// An empty configFile searches for .schedtrace.yaml in the working
// directory and then the home directory; a missing file is not an error.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".schedtrace")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

// Load applies defaults for any key the file, environment or flags left
// unset and decodes the result.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("catalog", "instances.json")
	v.SetDefault("edit_policy", string(domain.PolicyLearning))
	v.SetDefault("log_use_cases", false)
	v.SetDefault("sentinel_task_name", "Integration")
	v.SetDefault("playback_tick_ms", 250)
	v.SetDefault("playback_speed", 1)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	switch c.EditPolicy {
	case domain.PolicyLearning, domain.PolicyStrict:
	default:
		errs = append(errs, fmt.Errorf("edit_policy must be %q or %q, got %q",
			domain.PolicyLearning, domain.PolicyStrict, c.EditPolicy))
	}
	if c.PlaybackTickMs <= 0 {
		errs = append(errs, fmt.Errorf("playback_tick_ms must be positive, got %d", c.PlaybackTickMs))
	}
	if c.PlaybackSpeed <= 0 {
		errs = append(errs, fmt.Errorf("playback_speed must be positive, got %d", c.PlaybackSpeed))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path must not be empty"))
	}
	return errors.Join(errs...)
}
