package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		QuestionsPerGame   int    `yaml:"questions_per_game"`
		SecondsPerQuestion int    `yaml:"seconds_per_question"`
		TickInterval       string `yaml:"tick_interval"`
		BankTTL            string `yaml:"bank_ttl"`
		DataFile           string `yaml:"data_file"`
		ShuffleOptions     bool   `yaml:"shuffle_options"`
	} `yaml:"quiz"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the settings used when no config file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Quiz.QuestionsPerGame = 10
	cfg.Quiz.SecondsPerQuestion = 30
	cfg.Quiz.TickInterval = "1s"
	cfg.Quiz.BankTTL = "10m"
	cfg.Quiz.ShuffleOptions = true
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Quiz.QuestionsPerGame <= 0 {
		cfg.Quiz.QuestionsPerGame = 10
	}
	if cfg.Quiz.SecondsPerQuestion <= 0 {
		cfg.Quiz.SecondsPerQuestion = 30
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
