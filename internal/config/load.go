package config

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasktracker/internal/task"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasktracker/tasktracker.toml or OS-specific config dir)
// 3. Project config file (tasktracker.toml or .tasktracker.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, nil)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	return load(fs, args, sources)
}

// load is the shared implementation. If sources is non-nil, it tracks the
// source of each value.
func load(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*ConfigWithSources, error) {
	cfg := &Config{}
	cws := &ConfigWithSources{Config: cfg, Sources: sources}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		cws.Files = append(cws.Files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		cws.Files = append(cws.Files, projectConfigFile)
	}

	// 4. Override from environment
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cws, nil
}

// loadConfigFile decodes TOML from path into cfg. Keys present in the file
// are recorded in sources when it is non-nil. Unknown keys are an error.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	if sources != nil {
		for _, key := range md.Keys() {
			sources[key.String()] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates settings.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.LogDir = expandPath(cfg.LogDir)

	// Determine project root
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	priority, err := task.ParsePriority(cfg.DefaultPriority)
	if err != nil {
		return fmt.Errorf("default_priority: %w", err)
	}
	cfg.DefaultPriority = string(priority)

	category := strings.TrimSpace(cfg.DefaultCategory)
	if category == "" {
		category = string(task.DefaultCategory)
	}
	cfg.DefaultCategory = category

	if cfg.SubscriberBuffer < 1 {
		return fmt.Errorf("subscriber_buffer must be at least 1, got %d", cfg.SubscriberBuffer)
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("addr is empty")
	}

	return nil
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
