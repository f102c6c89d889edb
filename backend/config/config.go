package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen       string        `yaml:"listen"`
	DatabasePath string        `yaml:"database_path"`
	MediaDir     string        `yaml:"media_dir"` // issue photo storage
	Session      SessionConfig `yaml:"session"`
	Logs         LogsConfig    `yaml:"logs"`
}

type SessionConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Secret  string        `yaml:"secret"`
}

type LogsConfig struct {
	MaxAge time.Duration `yaml:"max_age"`
}

var C Config

func Load() error {
	// .env is optional; real env vars still win below
	_ = godotenv.Load()

	// Defaults
	C = Config{
		Listen:       ":8080",
		DatabasePath: "transects.db",
		MediaDir:     "media",
		Session: SessionConfig{
			Timeout: 24 * time.Hour,
		},
		Logs: LogsConfig{
			MaxAge: 48 * time.Hour,
		},
	}

	// Load from YAML if exists
	if data, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &C); err != nil {
			return err
		}
	}

	// Environment overrides
	if v := os.Getenv("LISTEN"); v != "" {
		C.Listen = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		C.DatabasePath = v
	}
	if v := os.Getenv("MEDIA_DIR"); v != "" {
		C.MediaDir = v
	}
	if v := os.Getenv("SESSION_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			C.Session.Timeout = d
		}
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		C.Session.Secret = v
	}
	if v := os.Getenv("LOGS_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			C.Logs.MaxAge = d
		}
	}

	return nil
}
