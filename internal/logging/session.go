package logging

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SessionExt is the file extension of session logs.
const SessionExt = ".log"

// Session is a log file for one interactive run. The terminal UI owns
// stdout, so its logs go here instead.
type Session struct {
	Dir  string
	ID   string
	Path string
	file *os.File
}

// NewSession creates <baseDir>/<project-slug>/<session-id>.log. A relative
// baseDir is resolved against workDir.
func NewSession(baseDir, workDir string) (*Session, error) {
	dir, err := SessionDir(baseDir, workDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	id := sessionID()
	path := filepath.Join(dir, id+SessionExt)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log file: %w", err)
	}

	return &Session{Dir: dir, ID: id, Path: path, file: file}, nil
}

// Writer returns the log file writer.
func (s *Session) Writer() io.Writer {
	return s.file
}

// Close closes the log file.
func (s *Session) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

// SessionDir returns the directory holding session logs for workDir
// without creating it.
func SessionDir(baseDir, workDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}

	if workDir == "" {
		workDir = "."
	}
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}

	baseDir = resolveBaseDir(baseDir, workDir)
	return filepath.Join(baseDir, projectSlug(resolveProjectRoot(workDir))), nil
}

// LatestSession returns the most recently modified session log in dir,
// or "" if there is none.
func LatestSession(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var found []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SessionExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}
	if len(found) == 0 {
		return "", nil
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].mod.Equal(found[j].mod) {
			return found[i].path > found[j].path
		}
		return found[i].mod.After(found[j].mod)
	})
	return found[0].path, nil
}

func resolveBaseDir(baseDir, workDir string) string {
	if filepath.IsAbs(baseDir) {
		return filepath.Clean(baseDir)
	}
	return filepath.Clean(filepath.Join(workDir, baseDir))
}

func resolveProjectRoot(workDir string) string {
	if _, err := exec.LookPath("git"); err == nil {
		out, err := exec.Command("git", "-C", workDir, "rev-parse", "--show-toplevel").Output()
		if err == nil {
			if root := strings.TrimSpace(string(out)); root != "" {
				return root
			}
		}
	}
	return workDir
}

func projectSlug(projectRoot string) string {
	return fmt.Sprintf("%s-%s", slugify(filepath.Base(projectRoot)), hashPath(projectRoot))
}

func slugify(input string) string {
	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" || slug == "." {
		return "project"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

func sessionID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}
