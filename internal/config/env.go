package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultRecordKey is the storage key of the personal-best record.
const DefaultRecordKey = "piflow_personal_best"

// EnvConfig holds environment overrides.
type EnvConfig struct {
	DBPath    string `env:"PIFLOW_DB_PATH"`
	LogLevel  string `env:"PIFLOW_LOG_LEVEL"`
	LogFile   string `env:"PIFLOW_LOG_FILE"`
	RecordKey string `env:"PIFLOW_RECORD_KEY" envDefault:"piflow_personal_best"`
}

// LoadEnv reads overrides from the environment after loading dotenvPath
// if it exists. Variables already set in the environment win.
func LoadEnv(dotenvPath string) (EnvConfig, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return EnvConfig{}, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RecordKey == "" {
		cfg.RecordKey = DefaultRecordKey
	}
	return cfg, nil
}

// ResolveDBPath returns the database path, honoring the env override.
func (c EnvConfig) ResolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return DefaultDBPath()
}

// ResolveLogPath returns the log file path, honoring the env override.
func (c EnvConfig) ResolveLogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return DefaultLogPath()
}
