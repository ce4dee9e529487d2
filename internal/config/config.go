package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env  string `yaml:"env"`
	Addr string `yaml:"addr"`

	LogLevel string `yaml:"log_level"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Session struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"session"`

	Notify struct {
		URL string `yaml:"url"`
	} `yaml:"notify"`
}

// Load reads the optional YAML file at path (skipped when path is empty or
// missing), then applies environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Env = "development"
	cfg.Addr = ":8080"
	cfg.LogLevel = "info"
	cfg.Session.TTLMinutes = 24 * 60

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.Addr = getEnv("ADDR", cfg.Addr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Database.DSN = getEnv("DATABASE_DSN", cfg.Database.DSN)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)
	cfg.Notify.URL = getEnv("NOTIFY_URL", cfg.Notify.URL)

	cfg.Session.TTLMinutes = getEnvInt("SESSION_TTL_MINUTES", cfg.Session.TTLMinutes)

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database DSN is required (set DATABASE_DSN or database.dsn)")
	}
	return cfg, nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
