package config

import (
	"flag"
	"strings"

	"github.com/nibzard/tasktracker/internal/utils"
)

// parseFlags defines the global flags on fs and parses args.
// If sources is non-nil, explicitly set flags are tracked.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasktracker", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP API listen address")

	// Logging
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Session log directory")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	// Form defaults
	fs.StringVar(&cfg.DefaultPriority, "priority", cfg.DefaultPriority, "Default priority for new tasks (Low, Medium, High)")
	fs.StringVar(&cfg.DefaultCategory, "category", cfg.DefaultCategory, "Default category for new tasks")
	categories := strings.Join(cfg.Categories, ",")
	fs.StringVar(&categories, "categories", categories, "Comma-separated extra categories")

	fs.IntVar(&cfg.SubscriberBuffer, "subscriber-buffer", cfg.SubscriberBuffer, "Buffered snapshot updates per subscriber")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"addr":              "addr",
		"log-dir":           "log_dir",
		"log-level":         "log_level",
		"log-format":        "log_format",
		"log-timestamps":    "log_timestamps",
		"log-caller":        "log_caller",
		"priority":          "default_priority",
		"category":          "default_category",
		"categories":        "categories",
		"subscriber-buffer": "subscriber_buffer",
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "categories" {
			cfg.Categories = utils.SplitAndTrim(categories, ",")
		}
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = SourceFlag
		}
	})

	return nil
}
