// Package config reads cmmc settings from an optional YAML file and
// CMMC_* environment variables.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"
)

type Args struct {
	ConfigPath string
}

// Config holds the settings shared by every command.
type Config struct {
	LogLevel  string `yaml:"LogLevel" env:"CMMC_LOG_LEVEL" env-default:"info" env-description:"Logger level (debug, info, warn, error)"`
	LogFormat string `yaml:"LogFormat" env:"CMMC_LOG_FORMAT" env-default:"console" env-description:"Logger encoding (console or json)"`
	Output    string `yaml:"Output" env:"CMMC_OUTPUT" env-default:"table" env-description:"Default output format (table, csv, json, pretty, ndjson)"`
	Workers   int    `yaml:"Workers" env:"CMMC_WORKERS" env-default:"4" env-description:"Files loaded concurrently"`
}

// Load reads path when set, then the environment. Environment variables
// win over the file; defaults fill what neither sets.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	return &cfg, nil
}

// ProcessArgs registers --config on cmd and appends the environment
// variable help to its usage.
func ProcessArgs(cfg interface{}, a *Args, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&a.ConfigPath, "config", "c", "", "Path to configuration file")

	envHelp, _ := cleanenv.GetDescription(cfg, nil)
	cmd.SetUsageTemplate(envHelp + "\n" + cmd.UsageTemplate())
}
