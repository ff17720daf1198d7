package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Damping       float64 `mapstructure:"damping"`
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Graph         string  `mapstructure:"graph"`     // Graph file (local or network resource)
	Backend       string  `mapstructure:"backend"`   // Graph backend
	Container     string  `mapstructure:"container"` // Rank container
	Runs          int     `mapstructure:"runs"`      // Benchmark repetitions
	Workers       int     `mapstructure:"workers"`   // Benchmark combinations run in parallel
	Output        string  `mapstructure:"output"`    // Result file
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("damping", 0.85)
	v.SetDefault("tolerance", 1e-6)
	v.SetDefault("max_iterations", 100)
	v.SetDefault("graph", "")
	v.SetDefault("backend", "linked")
	v.SetDefault("container", "array")
	v.SetDefault("runs", 3)
	v.SetDefault("workers", 1)
	v.SetDefault("output", "")
}

// LoadConfiguration reads the configuration file at path (config.json in the
// working directory if path is empty; a missing default file is not an error).
// PAGERANK_* environment variables override the file.
func LoadConfiguration(path string) (config Config, err error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("pagerank")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err = v.ReadInConfig(); err != nil {
			return config, fmt.Errorf("read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if err = v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return config, fmt.Errorf("read config.json: %w", err)
			}
		}
	}
	// Parse into Config struct
	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("parse: %w", err)
	}
	return config, nil
}
