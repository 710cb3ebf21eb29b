// Package config loads the application configuration from a file,
// environment variables and flags, in ascending priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/fmuoria/ats-filter/internal/scoring"
)

// Config holds all runtime settings.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `mapstructure:"listen_addr"`

	// UploadsDir is where original document bytes are kept.
	UploadsDir string `mapstructure:"uploads_dir"`

	// DictionaryPath points at a YAML skills/keywords/education dictionary.
	// Empty means the built-in dictionary.
	DictionaryPath string `mapstructure:"dictionary_path"`

	// Weights control the score blend across the four categories.
	Weights scoring.Weights `mapstructure:"weights"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// SetDefaults registers the default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	w := scoring.DefaultWeights()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("uploads_dir", "uploads")
	v.SetDefault("dictionary_path", "")
	v.SetDefault("weights.skills", w.Skills)
	v.SetDefault("weights.experience", w.Experience)
	v.SetDefault("weights.education", w.Education)
	v.SetDefault("weights.keywords", w.Keywords)
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// Load reads the configuration. cfgFile, when non-empty, names an explicit
// config file; otherwise ats-filter.yaml is searched in the working
// directory. Environment variables use the ATS_FILTER prefix with
// underscores for nesting (ATS_FILTER_LOG_DEBUG).
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("ATS_FILTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("ats-filter")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
