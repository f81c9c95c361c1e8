// Package config handles the configuration directory, config file and runtime settings.
package config

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// AppName is the application directory name.
	AppName = "taskcli"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// TokenFile is the stored session token filename.
	TokenFile = "token.json"

	// EnvPrefix prefixes environment overrides (TASKCLI_BASE_URL, TASKCLI_TIMEOUT).
	EnvPrefix = "TASKCLI"

	// DefaultBaseURL is used when no base_url is configured.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout bounds every HTTP request.
	DefaultTimeout = 10 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the task service root, without trailing slash.
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// In is read for interactive prompts (passwords). Nil means no input.
	In io.Reader

	// Log is the component logger. Nil is treated as a no-op logger.
	Log *zap.Logger
}

// New creates a new Config with the default or specified config directory and
// loads config.yaml plus TASKCLI_* environment overrides.
// If configDir is empty, uses XDG_CONFIG_HOME/taskcli or $HOME/.config/taskcli.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load() error {
	v := viper.New()
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", DefaultTimeout.String())
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if _, err := os.Stat(c.ConfigPath()); err == nil {
		v.SetConfigFile(c.ConfigPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	if err := c.SetBaseURL(v.GetString("base_url")); err != nil {
		return err
	}

	timeout, err := parseTimeout(v.GetString("timeout"))
	if err != nil {
		return err
	}
	c.Timeout = timeout
	return nil
}

// parseTimeout reads a Go duration ("3s", "1m30s"); a bare integer is seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	var d time.Duration
	if n, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(n) * time.Second
	} else if d, err = time.ParseDuration(raw); err != nil {
		return 0, fmt.Errorf("invalid timeout: %q", raw)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout: %q", raw)
	}
	return d, nil
}

// SetBaseURL validates and stores the service root.
func (c *Config) SetBaseURL(raw string) error {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid base url: %q", raw)
	}
	c.BaseURL = raw
	return nil
}

// Logger returns the configured logger, never nil.
func (c *Config) Logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the stored session token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}
