package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/nibzard/tasktracker/internal/utils"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TASKTRACKER_"

// DotEnvFile is read from the working directory if present. Variables
// already set in the environment take precedence over it.
const DotEnvFile = ".env"

func readDotEnv() map[string]string {
	vars, err := godotenv.Read(DotEnvFile)
	if err != nil {
		return nil
	}
	return vars
}

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	dotenv := readDotEnv()
	lookup := func(name string) (string, bool) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			return v, true
		}
		v := dotenv[EnvPrefix+name]
		return v, v != ""
	}

	if v, ok := lookup("ADDR"); ok {
		cfg.Addr = v
		set("addr")
	}
	if v, ok := lookup("LOG_DIR"); ok {
		cfg.LogDir = v
		set("log_dir")
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
		set("log_level")
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = v
		set("log_format")
	}
	if v, ok := lookup("LOG_TIMESTAMPS"); ok {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v, ok := lookup("LOG_CALLER"); ok {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
	if v, ok := lookup("DEFAULT_PRIORITY"); ok {
		cfg.DefaultPriority = v
		set("default_priority")
	}
	if v, ok := lookup("DEFAULT_CATEGORY"); ok {
		cfg.DefaultCategory = v
		set("default_category")
	}
	if v, ok := lookup("CATEGORIES"); ok {
		cfg.Categories = utils.SplitAndTrim(v, ",")
		set("categories")
	}
	if v, ok := lookup("SUBSCRIBER_BUFFER"); ok {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.SubscriberBuffer = i
			set("subscriber_buffer")
		}
	}
}
