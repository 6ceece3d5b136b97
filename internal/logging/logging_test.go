// Package logging provides tests for loggers, session logs and tail output.
package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    []string
		notWant []string
	}{
		{
			name:    "text info",
			opts:    Options{Level: "info"},
			want:    []string{"INFO", "applied add", "id=1"},
			notWant: []string{"debug line"},
		},
		{
			name: "json debug",
			opts: Options{Level: "debug", Format: "json"},
			want: []string{`"msg":"applied add"`, `"id":1`, "debug line"},
		},
		{
			name: "logfmt with prefix",
			opts: Options{Format: "logfmt", Prefix: "tasktracker"},
			want: []string{"level=info", "prefix=tasktracker", `msg="applied add"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.opts)
			logger.Debug("debug line")
			logger.Info("applied add", "id", 1)

			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output %q missing %q", out, s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("output %q should not contain %q", out, s)
				}
			}
		})
	}
}

func TestNewSession(t *testing.T) {
	t.Run("creates file under project slug", func(t *testing.T) {
		base := t.TempDir()
		work := filepath.Join(t.TempDir(), "my project")
		if err := os.Mkdir(work, 0755); err != nil {
			t.Fatal(err)
		}

		s, err := NewSession(base, work)
		if err != nil {
			t.Fatalf("NewSession failed: %v", err)
		}
		defer s.Close()

		if !strings.HasPrefix(s.Dir, base) {
			t.Errorf("Dir %q not under %q", s.Dir, base)
		}
		if !strings.HasPrefix(filepath.Base(s.Dir), "my_project-") {
			t.Errorf("Dir %q missing project slug", s.Dir)
		}
		if filepath.Ext(s.Path) != SessionExt {
			t.Errorf("Path %q: want %s extension", s.Path, SessionExt)
		}
		if _, err := os.Stat(s.Path); err != nil {
			t.Errorf("log file not created: %v", err)
		}
		if _, err := s.Writer().Write([]byte("hello\n")); err != nil {
			t.Errorf("write: %v", err)
		}
	})

	t.Run("empty base dir", func(t *testing.T) {
		_, err := NewSession("", t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "empty") {
			t.Fatalf("expected empty dir error, got %v", err)
		}
	})

	t.Run("relative base dir resolves against work dir", func(t *testing.T) {
		work := t.TempDir()
		dir, err := SessionDir("logs", work)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(dir, filepath.Join(work, "logs")) {
			t.Errorf("SessionDir: got %q, want prefix %q", dir, filepath.Join(work, "logs"))
		}
	})
}

func TestSessionCloseNil(t *testing.T) {
	var s *Session
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil session: %v", err)
	}
}

func TestLatestSession(t *testing.T) {
	dir := t.TempDir()

	got, err := LatestSession(filepath.Join(dir, "missing"))
	if err != nil || got != "" {
		t.Fatalf("missing dir: got %q, %v", got, err)
	}

	older := filepath.Join(dir, "20240101-000000-1.log")
	newer := filepath.Join(dir, "20240102-000000-2.log")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{older, newer, other} {
		if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err = LatestSession(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != newer {
		t.Errorf("LatestSession: got %q, want %q", got, newer)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tasktracker", "tasktracker"},
		{"my project", "my_project"},
		{"a//b", "a_b"},
		{"__x__", "x"},
		{"", "project"},
		{"***", "project"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHashPath(t *testing.T) {
	a := hashPath("/a")
	if len(a) != 8 {
		t.Errorf("hash length: got %d, want 8", len(a))
	}
	if a != hashPath("/a") {
		t.Error("hash not stable")
	}
	if a == hashPath("/b") {
		t.Error("different paths share a hash")
	}
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree\n"},
		{2, "two\nthree\n"},
		{10, "one\ntwo\nthree\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Tail(context.Background(), &buf, path, tt.n, false); err != nil {
			t.Fatalf("Tail(n=%d): %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("Tail(n=%d): got %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	if err := Tail(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "none.log"), 0, false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTailFollowStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.log")
	if err := os.WriteFile(path, []byte("one\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	if err := Tail(ctx, &buf, path, 0, true); err != nil {
		t.Fatalf("Tail follow: %v", err)
	}
	if buf.String() != "one\n" {
		t.Errorf("got %q, want %q", buf.String(), "one\n")
	}
}

func TestTailPartialLastLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.log")
	if err := os.WriteFile(path, []byte("one\ntwo\nthree"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want string
	}{
		{0, "one\ntwo\nthree"},
		{1, "three"},
		{2, "two\nthree"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Tail(context.Background(), &buf, path, tt.n, false); err != nil {
			t.Fatalf("Tail(n=%d): %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("Tail(n=%d): got %q, want %q", tt.n, buf.String(), tt.want)
		}
	}
}

func TestTailFollowContinuesPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.log")
	if err := os.WriteFile(path, []byte("one\ntwo"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 600*time.Millisecond)
	defer cancel()

	go func() {
		time.Sleep(150 * time.Millisecond)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return
		}
		defer f.Close()
		f.WriteString("-more\n")
	}()

	var buf bytes.Buffer
	if err := Tail(ctx, &buf, path, 0, true); err != nil {
		t.Fatalf("Tail follow: %v", err)
	}
	if got, want := buf.String(), "one\ntwo-more\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
