package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ in p.
// On Windows %VAR% references and a ~\ prefix are also expanded.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandWindowsEnv(p)
	}

	rest, ok := homeRelative(p)
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

// homeRelative reports whether p starts at the home directory and returns
// the remainder.
func homeRelative(p string) (string, bool) {
	switch {
	case p == "~":
		return "", true
	case strings.HasPrefix(p, "~/"):
		return p[2:], true
	case runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`):
		return p[2:], true
	}
	return "", false
}

// expandWindowsEnv replaces %VAR% with its value. Unknown variables and
// lone percent signs are kept.
func expandWindowsEnv(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			b.WriteString(p)
			return b.String()
		}
		end := strings.IndexByte(p[start+1:], '%')
		if end < 0 {
			b.WriteString(p)
			return b.String()
		}
		end += start + 1

		b.WriteString(p[:start])
		key := p[start+1 : end]
		if val, ok := os.LookupEnv(key); ok && key != "" {
			b.WriteString(val)
		} else {
			b.WriteString(p[start : end+1])
		}
		p = p[end+1:]
	}
}
