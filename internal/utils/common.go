// Package utils provides small string helpers shared across packages.
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SplitAndTrim splits a string by sep and trims whitespace from each part.
// Empty parts are omitted from the result.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Truncate shortens s to at most max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// JSONPointerToPath converts a JSON Pointer (RFC 6901) to a dot-notation path.
// For example, "#/foo/bar/0/baz" becomes "foo.bar[0].baz".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		// ~1 is "/", ~0 is "~"
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
