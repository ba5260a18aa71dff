package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pstuifzand/tui-annotator/internal/model"
)

const appDir = "tui-annotator"

// Config holds application configuration
type Config struct {
	Theme    string `toml:"theme"`
	Grouping string `toml:"grouping"`
	// Ordering is "date" or "score", optionally suffixed with "-desc"
	Ordering string `toml:"ordering"`
	// RedisURL enables the redis draft cache for comments when set
	RedisURL string            `toml:"redis_url"`
	Author   string            `toml:"author"`
	Settings map[string]string `toml:"settings"`

	// Session settings (not persisted to TOML, overrides persisted settings)
	sessionSettings map[string]string
}

// Load loads the config file from the standard location
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return defaultConfig(), nil
	}

	return LoadFromFile(configPath)
}

// LoadFromFile loads config from a specific file
func LoadFromFile(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Theme == "" {
		config.Theme = "tokyo-night"
	}
	if config.Settings == nil {
		config.Settings = make(map[string]string)
	}
	config.sessionSettings = make(map[string]string)

	return config, nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// defaultConfig returns the default configuration
func defaultConfig() *Config {
	return &Config{
		Theme:           "tokyo-night",
		Grouping:        string(model.GroupingManual),
		Ordering:        string(model.OrderByDate),
		Settings:        make(map[string]string),
		sessionSettings: make(map[string]string),
	}
}

// GetConfigDir returns the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDir), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(configDir, 0o755)
}

// GroupingMode returns the configured grouping. A "grouping" setting wins
// over the top-level key; unknown values fall back to manual.
func (c *Config) GroupingMode() model.Grouping {
	value := c.Get("grouping")
	if value == "" {
		value = c.Grouping
	}
	for _, g := range model.Groupings {
		if string(g) == value {
			return g
		}
	}
	return model.GroupingManual
}

// OrderingMode returns the configured ordering, "score-desc" style
func (c *Config) OrderingMode() model.Ordering {
	value := c.Get("ordering")
	if value == "" {
		value = c.Ordering
	}
	return ParseOrdering(value)
}

// ParseOrdering parses "date", "score", "date-desc" or "score-desc"
func ParseOrdering(value string) model.Ordering {
	by, desc := strings.CutSuffix(strings.ToLower(strings.TrimSpace(value)), "-desc")
	ordering := model.Ordering{By: model.OrderByDate, Descending: desc}
	if by == string(model.OrderByScore) {
		ordering.By = model.OrderByScore
	}
	return ordering
}

// FormatOrdering is the inverse of ParseOrdering
func FormatOrdering(o model.Ordering) string {
	if o.Descending {
		return string(o.By) + "-desc"
	}
	return string(o.By)
}

// Set sets a session configuration value
func (c *Config) Set(key, value string) {
	if c.sessionSettings == nil {
		c.sessionSettings = make(map[string]string)
	}
	c.sessionSettings[key] = value
}

// Get retrieves a configuration value, checking session settings first (which override persisted settings)
// Returns empty string if not found in either source
func (c *Config) Get(key string) string {
	if c.sessionSettings != nil {
		if val, ok := c.sessionSettings[key]; ok {
			return val
		}
	}

	if c.Settings != nil {
		if val, ok := c.Settings[key]; ok {
			return val
		}
	}

	return ""
}

// GetAll returns all configuration values (both persisted and session)
// Session settings override persisted settings with the same key
func (c *Config) GetAll() map[string]string {
	result := make(map[string]string)

	for k, v := range c.Settings {
		result[k] = v
	}
	for k, v := range c.sessionSettings {
		result[k] = v
	}

	return result
}

// Save persists the configuration to the standard location.
// Session settings are not written.
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.SaveToFile(configPath)
}

// SaveToFile writes the configuration as TOML to filePath
func (c *Config) SaveToFile(filePath string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
