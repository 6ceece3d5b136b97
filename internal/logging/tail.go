package logging

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// followInterval is how often Tail polls for new data when following.
const followInterval = 100 * time.Millisecond

// Tail writes the last n lines of the file at path to w (all lines when
// n <= 0). With follow set it keeps copying new data until ctx ends.
func Tail(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if err := writeLastLines(w, file, n); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := io.Copy(w, file); err != nil {
				return err
			}
		}
	}
}

// writeLastLines copies the last n lines of r to w and leaves r at EOF.
// Lines are written as read, so an unterminated final line stays
// unterminated and later appended data continues it.
func writeLastLines(w io.Writer, r io.Reader, n int) error {
	reader := bufio.NewReader(r)

	var ring []string
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			ring = append(ring, line)
			if n > 0 && len(ring) > n {
				ring = ring[1:]
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read log file: %w", err)
		}
	}

	for _, line := range ring {
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
