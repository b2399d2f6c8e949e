// Package config handles configuration for teamlens.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/diogo/teamlens/internal/models"
)

// Environment variables that override the config file
const (
	EnvServerURL = "TEAMLENS_SERVER_URL"
	EnvProxy     = "TEAMLENS_PROXY"
	EnvLogLevel  = "TEAMLENS_LOG_LEVEL"
	EnvTimeout   = "TEAMLENS_TIMEOUT_SECONDS"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", "dracula", "notty", "ascii" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// ServerURL is the base URL of the insight service
	ServerURL string `json:"server_url"`
	// Proxy is an optional proxy URL for all requests
	Proxy string `json:"proxy,omitempty"`
	// TimeoutSeconds bounds every request; 0 disables the bound
	TimeoutSeconds int `json:"timeout_seconds"`
	// CacheTTLSeconds controls how long fetched employee records are reused
	CacheTTLSeconds int `json:"cache_ttl_seconds"`

	LogLevel        string         `json:"log_level"`
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`    // TUI color theme
	DownloadDir     string         `json:"download_dir,omitempty"` // Directory for saving graphs
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		ServerURL:       models.DefaultServerURL,
		TimeoutSeconds:  120,
		CacheTTLSeconds: 300, // 5 minutes
		LogLevel:        "info",
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		DownloadDir:     filepath.Join(homeDir, ".teamlens", "graphs"),
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns the request timeout as a duration
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the employee cache TTL as a duration
func (c Config) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".teamlens")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the path to the log file used while the TUI owns the terminal
func GetLogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "teamlens.log"), nil
}

// GetDownloadDir returns the download directory from config, creating it if necessary
func GetDownloadDir(cfg Config) (string, error) {
	dir := cfg.DownloadDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".teamlens", "graphs")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	return dir, nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Load reads the config file and applies the environment on top of it.
// A .env file in the working directory is loaded first when present.
func Load() (Config, error) {
	// A missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	ApplyEnv(&cfg)
	return cfg, err
}

// ApplyEnv overrides cfg with the TEAMLENS_* environment variables that are set
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvServerURL)); v != "" {
		cfg.ServerURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvProxy)); v != "" {
		cfg.Proxy = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTimeout)); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = secs
		}
	}
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetValue updates one setting by its JSON key.
// It backs `teamlens config set`.
func SetValue(cfg *Config, key, value string) error {
	switch key {
	case "server_url":
		cfg.ServerURL = strings.TrimRight(value, "/")
	case "proxy":
		cfg.Proxy = value
	case "timeout_seconds", "cache_ttl_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
		}
		if key == "timeout_seconds" {
			cfg.TimeoutSeconds = n
		} else {
			cfg.CacheTTLSeconds = n
		}
	case "log_level":
		cfg.LogLevel = value
	case "verbose", "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		if key == "verbose" {
			cfg.Verbose = b
		} else {
			cfg.CopyToClipboard = b
		}
	case "tui_theme":
		cfg.TUITheme = value
	case "download_dir":
		cfg.DownloadDir = value
	case "markdown.style":
		cfg.Markdown.Style = value
	default:
		return fmt.Errorf("unknown setting %q (available: %s)", key, strings.Join(SettableKeys(), ", "))
	}
	return nil
}

// SettableKeys lists the keys accepted by SetValue
func SettableKeys() []string {
	return []string{
		"server_url",
		"proxy",
		"timeout_seconds",
		"cache_ttl_seconds",
		"log_level",
		"verbose",
		"copy_to_clipboard",
		"tui_theme",
		"download_dir",
		"markdown.style",
	}
}
