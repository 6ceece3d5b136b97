package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasktracker configuration file
# Values can be overridden by TASKTRACKER_* environment variables or CLI flags

# HTTP API listen address (serve command)
addr = "127.0.0.1:8080"

# Session log directory for the terminal UI (supports ~ expansion)
log_dir = "~/.tasktracker"

# Logging: debug, info, warn, error
log_level = "info"
# text, json, or logfmt
log_format = "text"
log_timestamps = false
log_caller = false

# Values preselected in the add form
default_priority = "Medium"
default_category = "General"

# Categories offered after General, Work and Personal
# categories = ["Errands", "Health"]

# Updates buffered per snapshot subscriber before older ones are dropped
subscriber_buffer = 16
`
}
