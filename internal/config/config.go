package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"
)

// FileName is the application config file inside the base directory.
const FileName = "config.json"

// HomeEnv overrides the base directory.
const HomeEnv = "CHATPREFS_HOME"

// Config represents the application configuration
type Config struct {
	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Reload Settings.xml when it changes on disk
	WatchSettings bool `json:"watch_settings"`
	WatchDebounce int  `json:"watch_debounce_ms"`

	// Chat preview rendering
	PreviewMarkdown bool   `json:"preview_markdown"`
	PreviewStyle    string `json:"preview_style"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LogLevel:        "info",
		LogFile:         "chatprefs.log",
		WatchSettings:   true,
		WatchDebounce:   300,
		PreviewMarkdown: true,
		PreviewStyle:    "dracula",
	}
}

// Manager handles configuration loading and saving
type Manager struct {
	baseDir    string
	configPath string
	config     *Config
}

// NewManager creates a configuration manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{
		baseDir:    baseDir,
		configPath: filepath.Join(baseDir, FileName),
		config:     DefaultConfig(),
	}
}

// BaseDir resolves the application base directory: $CHATPREFS_HOME when
// set, otherwise the directory holding the executable.
func BaseDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Abs(dir)
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// BaseDir returns the directory settings and config live in.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Load reads the configuration from disk, writing defaults if there is
// no file yet.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	m.expandEnvVars(config)
	m.config = config
	return nil
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := renameio.WriteFile(m.configPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	return m.config
}

// LogPath resolves LogFile against the base directory. Empty means no
// log file.
func (m *Manager) LogPath() string {
	if m.config.LogFile == "" || filepath.IsAbs(m.config.LogFile) {
		return m.config.LogFile
	}
	return filepath.Join(m.baseDir, m.config.LogFile)
}

// expandEnvVars expands environment variables in string config values
func (m *Manager) expandEnvVars(config *Config) {
	config.LogLevel = expandString(config.LogLevel)
	config.LogFile = expandString(config.LogFile)
	config.PreviewStyle = expandString(config.PreviewStyle)
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandString expands $VAR and ${VAR}; unset variables are left as is.
func expandString(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})
}
