package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"herald/internal/logging"
	"herald/internal/post"
)

const timestampLayout = "20060102_150405"

// SaveRun writes a run's output under postsDir in a timestamped directory:
// the combined output plus one file per extracted section. Returns the run
// directory path.
func SaveRun(postsDir string, out *RunOutput, logger logging.Logger) (string, error) {
	runDir := filepath.Join(postsDir, time.Now().Format(timestampLayout))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}

	fullPath := filepath.Join(runDir, post.FullOutputFile)
	if err := os.WriteFile(fullPath, []byte(out.Full), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", post.FullOutputFile, err)
	}

	for _, section := range []string{post.SectionStory, post.SectionAnalysis, post.SectionPost} {
		content, ok := post.ExtractSection(out.Full, section)
		if !ok {
			logger.WithField("section", section).Warn("Section missing from run output")
			continue
		}
		name := strings.ToLower(section) + ".txt"
		if err := os.WriteFile(filepath.Join(runDir, name), []byte(content), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", name, err)
		}
	}

	logger.WithField("dir", runDir).Info("Run output saved")
	return runDir, nil
}
