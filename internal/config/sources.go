package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// projectConfigNames are checked in the working directory, in order.
var projectConfigNames = []string{"tasktracker.toml", ".tasktracker.toml"}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range projectConfigNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks ~/.tasktracker/tasktracker.toml first, then falls back to the
// OS-specific config directory.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".tasktracker", "tasktracker.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "tasktracker", "tasktracker.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// Fields returns the tracked field names in display order.
func (cws *ConfigWithSources) Fields() []string {
	return configFields()
}

// Source returns where field got its value.
func (cws *ConfigWithSources) Source(field string) ConfigSource {
	if s, ok := cws.Sources[field]; ok {
		return s
	}
	return SourceDefault
}

// Value returns the effective value of field formatted for display.
func (cws *ConfigWithSources) Value(field string) string {
	c := cws.Config
	switch field {
	case "addr":
		return c.Addr
	case "log_dir":
		return c.LogDir
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	case "default_priority":
		return c.DefaultPriority
	case "default_category":
		return c.DefaultCategory
	case "categories":
		return strings.Join(c.Categories, ",")
	case "subscriber_buffer":
		return strconv.Itoa(c.SubscriberBuffer)
	}
	return ""
}
