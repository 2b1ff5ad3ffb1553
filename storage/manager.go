// Package storage loads and persists client settings.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"howlongtobeat/models"
)

const (
	envPrefix    = "HLTB"
	debugEnv     = "HLTB_DEBUG"
	settingsFile = "settings.json"
)

// Manager handles settings persistence. Values are layered: defaults, then
// the settings file, then HLTB_* environment variables (a .env file in the
// working directory is loaded into the environment first).
type Manager struct {
	dataPath   string
	configFile string
	envFiles   []string
}

// Option configures a Manager
type Option func(*Manager)

// WithConfigFile uses an explicit settings file, which must exist when loading
func WithConfigFile(path string) Option {
	return func(m *Manager) { m.configFile = path }
}

// WithDataPath overrides the settings directory
func WithDataPath(dir string) Option {
	return func(m *Manager) { m.dataPath = dir }
}

// WithEnvFiles replaces the dotenv files loaded before reading the environment
func WithEnvFiles(paths ...string) Option {
	return func(m *Manager) { m.envFiles = paths }
}

// NewManager creates a new storage manager
func NewManager(opts ...Option) *Manager {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	m := &Manager{
		dataPath: filepath.Join(homeDir, ".howlongtobeat"),
		envFiles: []string{".env"},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ConfigPath is where settings are read from and saved to
func (m *Manager) ConfigPath() string {
	if m.configFile != "" {
		return m.configFile
	}
	return filepath.Join(m.dataPath, settingsFile)
}

// LoadSettings loads the effective settings
func (m *Manager) LoadSettings() (*models.Settings, error) {
	if err := m.loadEnvFiles(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, models.DefaultSettings())

	v.SetEnvPrefix(envPrefix)
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	path := m.ConfigPath()
	if _, err := os.Stat(path); err == nil || m.configFile != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("json")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings models.Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// diagnostics follow HLTB_DEBUG alone and are never read from a file
	settings.Debug = false
	if value, ok := os.LookupEnv(debugEnv); ok {
		settings.Debug = DebugEnabled(value)
	}

	if err := validate(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings saves the settings to disk
func (m *Manager) SaveSettings(settings *models.Settings) error {
	path := m.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(toFile(settings), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DebugEnabled interprets a debug toggle value. Any value other than
// 0, false, no or off turns diagnostics on, including an empty one.
func DebugEnabled(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "no", "off":
		return false
	default:
		return true
	}
}

func (m *Manager) loadEnvFiles() error {
	for _, path := range m.envFiles {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// fileSettings is the on-disk shape; durations are stored as strings like "15s"
type fileSettings struct {
	BaseURL           string `json:"base_url"`
	APIRoot           string `json:"api_root"`
	UserAgent         string `json:"user_agent"`
	RequestTimeout    string `json:"request_timeout"`
	SearchTimeout     string `json:"search_timeout"`
	CoalesceDiscovery bool   `json:"coalesce_discovery"`
	LogFile           string `json:"log_file,omitempty"`
}

func toFile(s *models.Settings) fileSettings {
	return fileSettings{
		BaseURL:           s.BaseURL,
		APIRoot:           s.APIRoot,
		UserAgent:         s.UserAgent,
		RequestTimeout:    s.RequestTimeout.String(),
		SearchTimeout:     s.SearchTimeout.String(),
		CoalesceDiscovery: s.CoalesceDiscovery,
		LogFile:           s.LogFile,
	}
}

func setDefaults(v *viper.Viper, d *models.Settings) {
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("api_root", d.APIRoot)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("search_timeout", d.SearchTimeout)
	v.SetDefault("coalesce_discovery", d.CoalesceDiscovery)
	v.SetDefault("log_file", d.LogFile)
}

func validate(s *models.Settings) error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", s.BaseURL)
	}
	if s.RequestTimeout < 0 || s.SearchTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	if s.UserAgent == "" {
		return errors.New("user_agent must not be empty")
	}
	return nil
}
