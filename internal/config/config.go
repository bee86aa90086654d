package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App           AppConfig           `yaml:"app"`
	Logging       LoggingConfig       `yaml:"logging"`
	Storage       StorageConfig       `yaml:"storage"`
	Directory     DirectoryConfig     `yaml:"directory"`
	Search        SearchConfig        `yaml:"search"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Assist        AssistConfig        `yaml:"assist"`
	Monitoring    MonitoringConfig    `yaml:"monitoring"`
	Exports       ExportConfig        `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type StorageConfig struct {
	// Driver selects the persistence adapter: memory, redis or sqlite.
	// Redis falls back to memory through the failover wrapper.
	Driver string       `yaml:"driver"`
	Redis  RedisConfig  `yaml:"redis"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type DirectoryConfig struct {
	FixturesPath string `yaml:"fixtures_path"`
}

type SearchConfig struct {
	DelayMS int `yaml:"delay_ms"`
}

type NotificationsConfig struct {
	TTLMS int `yaml:"ttl_ms"`
}

type AssistConfig struct {
	APIKey     string  `yaml:"api_key"`
	Model      string  `yaml:"model"`
	BaseURL    string  `yaml:"base_url"`
	TimeoutSec int     `yaml:"timeout_sec"`
	RPS        float64 `yaml:"rps"`
	Burst      int     `yaml:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	Port              int  `yaml:"port"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the YAML config, expanding ${VAR} references from the
// environment (an optional .env file is loaded first).
func Load(configPath string) (*Config, error) {
	// .env is optional; environment variables may come from the shell.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "redis":
		if c.Storage.Redis.Address == "" {
			return errors.New("storage.redis.address is required for the redis driver")
		}
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return errors.New("storage.sqlite.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Directory.FixturesPath == "" {
		return errors.New("directory.fixtures_path is required")
	}

	if c.Assist.RPS < 0 {
		return errors.New("assist.rps must not be negative")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "urbanlink"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Search.DelayMS == 0 {
		c.Search.DelayMS = 1000
	}
	if c.Notifications.TTLMS == 0 {
		c.Notifications.TTLMS = 3000
	}
	if c.Assist.Model == "" {
		c.Assist.Model = "gemini-2.5-flash"
	}
	if c.Assist.BaseURL == "" {
		c.Assist.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if c.Assist.TimeoutSec == 0 {
		c.Assist.TimeoutSec = 15
	}
	if c.Assist.RPS == 0 {
		c.Assist.RPS = 1
	}
	if c.Assist.Burst == 0 {
		c.Assist.Burst = 3
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.Port == 0 {
		c.Monitoring.Port = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
