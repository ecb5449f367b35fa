// Package runlog keeps a plain-file record of every published post, one file
// per post. It works with no database configured and doubles as an audit
// trail a human can read straight off disk.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

// Write records a published post and returns the log file path.
func Write(dir, content string, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}

	stamp := at.Format(timestampLayout)
	path := filepath.Join(dir, fmt.Sprintf("post_log_%s.txt", stamp))

	body := fmt.Sprintf("Posted at: %s\nContent:\n%s\n", stamp, content)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write post log: %w", err)
	}
	return path, nil
}

// List returns post log paths, newest first. A missing directory is an empty
// history, not an error.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "post_log_") || !strings.HasSuffix(name, ".txt") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}
