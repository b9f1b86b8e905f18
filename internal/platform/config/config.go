package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config carries runtime settings sourced from the environment.
type Config struct {
	DBPath            string `env:"PAGETURN_DB"`
	UserID            string `env:"PAGETURN_USER"`
	PluginDir         string `env:"PAGETURN_PLUGIN_DIR"`
	TuningPath        string `env:"PAGETURN_TUNING"`
	GoogleBooksAPIKey string `env:"GOOGLE_BOOKS_API_KEY"`
	AladinTTBKey      string `env:"ALADIN_TTB_KEY"`
	LogLevel          string `env:"PAGETURN_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables and fills
// path defaults relative to dataDir.
func Load(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dataDir, ".pageturn", "pageturn.db")
	}
	if cfg.PluginDir == "" {
		cfg.PluginDir = filepath.Join(dataDir, ".pageturn", "plugins")
	}
	if cfg.TuningPath == "" {
		cfg.TuningPath = filepath.Join(dataDir, ".pageturn", "tuning.yaml")
	}
	return cfg, nil
}

// Tuning holds the pace constants a deployment may override.
// Zero fields fall back to the shipped defaults.
type Tuning struct {
	DefaultPPM        float64 `yaml:"default_ppm"`
	BaselineSlack     float64 `yaml:"baseline_slack"`
	SlackMin          float64 `yaml:"slack_min"`
	SlackMax          float64 `yaml:"slack_max"`
	HistoryWindowDays int     `yaml:"history_window_days"`
	MinSamples        int     `yaml:"min_samples"`
}

// LoadTuning reads the optional yaml tuning file. A missing file is not an
// error; it simply yields an all-zero Tuning (defaults apply downstream).
func (c Config) LoadTuning() (Tuning, error) {
	payload, err := os.ReadFile(c.TuningPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Tuning{}, nil
		}
		return Tuning{}, fmt.Errorf("read tuning file: %w", err)
	}
	tuning := Tuning{}
	if err := yaml.Unmarshal(payload, &tuning); err != nil {
		return Tuning{}, fmt.Errorf("decode tuning file: %w", err)
	}
	return tuning, nil
}
