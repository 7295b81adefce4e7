package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultListen     = "localhost:8080"
	DefaultDebounce   = 300 * time.Millisecond
	DefaultDatesCount = 50
	DefaultSessionTTL = 2 * time.Hour
)

type Config struct {
	// StorageDir holds the sqlite database with custom words and favorites.
	StorageDir string `toml:"storage_dir"`
	// DataDir holds the JSON datasets (1000-words.json, tenses.json, ...).
	DataDir string `toml:"data_dir"`
	Listen  string `toml:"listen"`
	// Debounce is how long live search input must be stable before a
	// query runs.
	Debounce Duration `toml:"debounce"`
	// DatesSeed seeds the generated dates dataset. Zero picks a time based
	// seed, so every start shows different dates.
	DatesSeed  uint64   `toml:"dates_seed"`
	DatesCount int      `toml:"dates_count"`
	SessionTTL Duration `toml:"session_ttl"`
	// DecodeEscapes resolves literal \xHH escapes in dataset text at load
	// time so it displays correctly.
	DecodeEscapes bool     `toml:"decode_escapes"`
	DebugServices []string `toml:"debug_services,omitempty"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	cfg := &Config{StorageDir: storageDir, DecodeEscapes: true}
	cfg.applyDefaults()
	return cfg, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = filepath.Join(c.StorageDir, "data")
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Debounce.Duration == 0 {
		c.Debounce = Duration{DefaultDebounce}
	}
	if c.DatesCount == 0 {
		c.DatesCount = DefaultDatesCount
	}
	if c.SessionTTL.Duration == 0 {
		c.SessionTTL = Duration{DefaultSessionTTL}
	}
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if c.Debounce.Duration < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	if c.SessionTTL.Duration < 0 {
		return fmt.Errorf("session_ttl must not be negative, got %s", c.SessionTTL)
	}
	if c.DatesCount < 0 {
		return fmt.Errorf("dates_count must not be negative, got %d", c.DatesCount)
	}
	return nil
}

// DBPath returns the path of the sqlite database inside StorageDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.StorageDir, "fiszki.db")
}

func (c *Config) SaveConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return "", fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	// Replace the placeholder directories with the actual paths
	template := strings.Replace(configTemplate, "/home/user/.local/share/fiszki/data", filepath.Join(storageDir, "data"), 1)
	template = strings.Replace(template, "/home/user/.local/share/fiszki", storageDir, 1)
	return template, nil
}

// GetDefaultStorageDir returns the default storage directory for the database
func GetDefaultStorageDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	fiszkiDir := filepath.Join(dataDir, "fiszki")

	if err := os.MkdirAll(fiszkiDir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", fiszkiDir, err)
	}

	return fiszkiDir, nil
}

// GetConfigDir returns the configuration directory for fiszki
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	fiszkiConfigDir := filepath.Join(configDir, "fiszki")

	if err := os.MkdirAll(fiszkiConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", fiszkiConfigDir, err)
	}

	return fiszkiConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
