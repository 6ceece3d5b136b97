package config

import (
	"github.com/nibzard/tasktracker/internal/logging"
	"github.com/nibzard/tasktracker/internal/task"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	Files   []string // config files that were read, lowest priority first
}

// Default values.
const (
	DefaultAddr             = "127.0.0.1:8080"
	DefaultLogDir           = "~/.tasktracker"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultSubscriberBuffer = 16
)

// Config holds the full configuration for tasktracker.
type Config struct {
	// HTTP API listen address
	Addr string `toml:"addr"`

	// Logging configuration
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Add-form defaults
	DefaultPriority string `toml:"default_priority"`
	DefaultCategory string `toml:"default_category"`

	// Extra categories offered after the built-in ones
	Categories []string `toml:"categories"`

	// Buffer size of snapshot subscriptions
	SubscriberBuffer int `toml:"subscriber_buffer"`

	// Working directory (computed)
	ProjectRoot string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"addr",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"default_priority",
		"default_category",
		"categories",
		"subscriber_buffer",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Addr = DefaultAddr
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.DefaultPriority = string(task.DefaultPriority)
	cfg.DefaultCategory = string(task.DefaultCategory)
	cfg.SubscriberBuffer = DefaultSubscriberBuffer
}

// TaskCategories returns the built-in categories plus the configured ones,
// including the default category.
func (c *Config) TaskCategories() []task.Category {
	extra := append([]string{}, c.Categories...)
	extra = append(extra, c.DefaultCategory)
	return task.Categories(extra...)
}

// FormDefaults returns the priority and category preselected in the add form.
func (c *Config) FormDefaults() (task.Priority, task.Category) {
	priority, err := task.ParsePriority(c.DefaultPriority)
	if err != nil {
		priority = task.DefaultPriority
	}
	return priority, task.ParseCategory(c.DefaultCategory, c.TaskCategories())
}

// LogOptions returns logger settings with the given prefix.
func (c *Config) LogOptions(prefix string) logging.Options {
	return logging.Options{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		Timestamps: c.LogTimestamps,
		Caller:     c.LogCaller,
		Prefix:     prefix,
	}
}
