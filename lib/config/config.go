// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for Nexus.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Daemon configures the privileged daemon's socket and logging.
	Daemon DaemonConfig `yaml:"daemon"`

	// Subsystems locates the host endpoints the handlers touch.
	Subsystems SubsystemsConfig `yaml:"subsystems"`

	// Launch configures programs started by the application handler.
	Launch LaunchConfig `yaml:"launch"`

	// Per-environment overrides, applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Daemon     *DaemonConfig     `yaml:"daemon,omitempty"`
	Subsystems *SubsystemsConfig `yaml:"subsystems,omitempty"`
	Launch     *LaunchConfig     `yaml:"launch,omitempty"`
}

// DaemonConfig configures nexus-brain.
type DaemonConfig struct {
	// SocketPath is the Unix socket the daemon listens on.
	// Default: /run/nexus/brain.sock
	SocketPath string `yaml:"socket_path"`

	// SocketMode is the octal permission mode applied to the socket.
	// Only members of the socket's group may submit goals.
	// Default: 0660
	SocketMode string `yaml:"socket_mode"`

	// RequestTimeout bounds one connection from accept to reply.
	// Default: 10s
	RequestTimeout string `yaml:"request_timeout"`

	// LogLevel is one of debug, info, warn, error.
	// Default: info
	LogLevel string `yaml:"log_level"`
}

// SubsystemsConfig locates host endpoints.
type SubsystemsConfig struct {
	// BrightnessPath is the backlight control file.
	// Default: /sys/class/backlight/intel_backlight/brightness
	BrightnessPath string `yaml:"brightness_path"`

	// ProcRoot is the procfs mount used to count processes.
	// Default: /proc
	ProcRoot string `yaml:"proc_root"`
}

// LaunchConfig configures started programs.
type LaunchConfig struct {
	// Environment is the complete environment of every launched program,
	// as KEY=VALUE entries. Nothing is inherited from the daemon.
	Environment []string `yaml:"environment"`
}

// Default returns the default configuration. Every field gets a usable
// value; the config file is still required.
func Default() *Config {
	return &Config{
		Environment: Development,
		Daemon: DaemonConfig{
			SocketPath:     "/run/nexus/brain.sock",
			SocketMode:     "0660",
			RequestTimeout: "10s",
			LogLevel:       "info",
		},
		Subsystems: SubsystemsConfig{
			BrightnessPath: "/sys/class/backlight/intel_backlight/brightness",
			ProcRoot:       "/proc",
		},
		Launch: LaunchConfig{
			Environment: []string{
				"HOME=/",
				"TERM=linux",
				"PATH=/sbin:/bin:/usr/sbin:/usr/bin",
			},
		},
	}
}

// Load loads configuration from the NEXUS_CONFIG environment variable.
// There is no fallback: if NEXUS_CONFIG is unset, Load fails.
func Load() (*Config, error) {
	configPath := os.Getenv("NEXUS_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("NEXUS_CONFIG environment variable not set; " +
			"set it to the path of your nexus.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The file is the single source of truth. The only expansion performed
// is ${HOME}, ${NEXUS_RUN}, and ${VAR:-default} in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// applyEnvironmentOverrides applies the section matching Environment.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: quieter logs.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Daemon: &DaemonConfig{LogLevel: "warn"},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Daemon != nil {
		setIfPresent(&c.Daemon.SocketPath, overrides.Daemon.SocketPath)
		setIfPresent(&c.Daemon.SocketMode, overrides.Daemon.SocketMode)
		setIfPresent(&c.Daemon.RequestTimeout, overrides.Daemon.RequestTimeout)
		setIfPresent(&c.Daemon.LogLevel, overrides.Daemon.LogLevel)
	}

	if overrides.Subsystems != nil {
		setIfPresent(&c.Subsystems.BrightnessPath, overrides.Subsystems.BrightnessPath)
		setIfPresent(&c.Subsystems.ProcRoot, overrides.Subsystems.ProcRoot)
	}

	if overrides.Launch != nil && overrides.Launch.Environment != nil {
		c.Launch.Environment = overrides.Launch.Environment
	}
}

func setIfPresent(field *string, value string) {
	if value != "" {
		*field = value
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Daemon.SocketPath = expandVars(c.Daemon.SocketPath, vars)
	c.Subsystems.BrightnessPath = expandVars(c.Subsystems.BrightnessPath, vars)
	c.Subsystems.ProcRoot = expandVars(c.Subsystems.ProcRoot, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Provided vars
// take precedence over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Daemon.SocketPath == "" {
		errs = append(errs, fmt.Errorf("daemon.socket_path is required"))
	} else if !filepath.IsAbs(c.Daemon.SocketPath) {
		errs = append(errs, fmt.Errorf("daemon.socket_path must be absolute: %s", c.Daemon.SocketPath))
	}
	if _, err := c.SocketMode(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.RequestTimeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.Subsystems.BrightnessPath == "" {
		errs = append(errs, fmt.Errorf("subsystems.brightness_path is required"))
	}
	if c.Subsystems.ProcRoot == "" {
		errs = append(errs, fmt.Errorf("subsystems.proc_root is required"))
	}

	for _, entry := range c.Launch.Environment {
		if key, _, ok := strings.Cut(entry, "="); !ok || key == "" {
			errs = append(errs, fmt.Errorf("launch.environment entry %q is not KEY=VALUE", entry))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SocketMode parses daemon.socket_mode as an octal permission mode.
func (c *Config) SocketMode() (os.FileMode, error) {
	mode, err := strconv.ParseUint(c.Daemon.SocketMode, 8, 32)
	if err != nil || mode > 0o777 {
		return 0, fmt.Errorf("daemon.socket_mode must be an octal permission mode, got %q", c.Daemon.SocketMode)
	}
	return os.FileMode(mode), nil
}

// RequestTimeout parses daemon.request_timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	timeout, err := time.ParseDuration(c.Daemon.RequestTimeout)
	if err != nil || timeout <= 0 {
		return 0, fmt.Errorf("daemon.request_timeout must be a positive duration, got %q", c.Daemon.RequestTimeout)
	}
	return timeout, nil
}

// LogLevel parses daemon.log_level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Daemon.LogLevel)); err != nil {
		return 0, fmt.Errorf("daemon.log_level must be one of debug, info, warn, error, got %q", c.Daemon.LogLevel)
	}
	return level, nil
}
