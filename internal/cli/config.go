package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the cadence.yaml configuration structure
type Config struct {
	Version string `yaml:"version"`
	Project string `yaml:"project"`

	Database struct {
		URL                     string `yaml:"url"`
		MaxConnections          int    `yaml:"max_connections"`
		StatementTimeoutSeconds int    `yaml:"statement_timeout_seconds"`
	} `yaml:"database"`

	Tables struct {
		Comments string `yaml:"comments"`
		Roster   string `yaml:"roster"`
	} `yaml:"tables"`

	Pipeline struct {
		BatchSize         int    `yaml:"batch_size"`
		SampleSize        int    `yaml:"sample_size"`
		BackupDir         string `yaml:"backup_dir"`
		RunTimeoutMinutes int    `yaml:"run_timeout_minutes"`
	} `yaml:"pipeline"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// LoadConfig reads and defaults a configuration file. With an empty path the
// default locations are probed; no file at all yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		locations := []string{"cadence.yaml", "cadence.yml", ".cadence.yaml", ".cadence.yml"}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Database.MaxConnections == 0 {
		config.Database.MaxConnections = 10
	}
	if config.Database.StatementTimeoutSeconds == 0 {
		config.Database.StatementTimeoutSeconds = 300
	}
	if config.Tables.Comments == "" {
		config.Tables.Comments = "rhwb_activities_comments"
	}
	if config.Tables.Roster == "" {
		config.Tables.Roster = "rhwb_coaches"
	}
	if config.Pipeline.BatchSize == 0 {
		config.Pipeline.BatchSize = 50
	}
	if config.Pipeline.SampleSize == 0 {
		config.Pipeline.SampleSize = 3
	}
	if config.Pipeline.BackupDir == "" {
		config.Pipeline.BackupDir = "."
	}
	if config.Pipeline.RunTimeoutMinutes == 0 {
		config.Pipeline.RunTimeoutMinutes = 10
	}
}
