package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the persistent settings of the tool
type Config struct {
	Server      string `yaml:"server"`
	School      string `yaml:"school"`
	Username    string `yaml:"username,omitempty"`
	Client      string `yaml:"client"`
	Timezone    string `yaml:"timezone"`
	MergePolicy string `yaml:"merge_policy"`
	CacheTTL    string `yaml:"cache_ttl"`
	Concurrency int    `yaml:"concurrency"`
}

// DefaultConfig returns the settings used when no config file exists
func DefaultConfig() *Config {
	return &Config{
		Server:      "arche.webuntis.com",
		School:      "AP-Hogeschool-Antwerpen",
		Client:      "untis-tabulator",
		Timezone:    "Europe/Brussels",
		MergePolicy: "any",
		CacheTTL:    "12h",
		Concurrency: 4,
	}
}

// ConfigPath returns the absolute path to ~/.untis-tabulator.yaml
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".untis-tabulator.yaml"), nil
}

// LoadConfig reads the configuration from disk, falling back to defaults for a missing
// file or missing keys
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the configuration back to disk
func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Set updates one setting by its yaml key
func (c *Config) Set(key, value string) error {
	switch key {
	case "server":
		c.Server = value
	case "school":
		c.School = value
	case "username":
		c.Username = value
	case "client":
		c.Client = value
	case "timezone":
		if _, err := time.LoadLocation(value); err != nil {
			return fmt.Errorf("invalid timezone: %w", err)
		}
		c.Timezone = value
	case "merge_policy":
		if _, err := ParseMergePolicy(value); err != nil {
			return err
		}
		c.MergePolicy = value
	case "cache_ttl":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid cache_ttl: %w", err)
		}
		c.CacheTTL = value
	case "concurrency":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("concurrency must be a positive integer")
		}
		c.Concurrency = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Location returns the time zone timetable times are expressed in
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// TTL returns how long a timetable snapshot stays fresh
func (c *Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}
