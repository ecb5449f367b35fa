package post

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNoPostContent marks every "nothing to publish" condition: missing posts
// directory, no runs inside it, or output without a usable post section.
var ErrNoPostContent = errors.New("no post content available")

// FullOutputFile is the combined pipeline output saved per run.
const FullOutputFile = "full_output.txt"

// LatestRunDir returns the newest run directory under postsDir. Run
// directories are named by timestamp, so the lexicographic maximum is the
// most recent.
func LatestRunDir(postsDir string) (string, error) {
	entries, err := os.ReadDir(postsDir)
	if err != nil {
		return "", fmt.Errorf("%w: read posts directory %s: %v", ErrNoPostContent, postsDir, err)
	}

	var latest string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if entry.Name() > latest {
			latest = entry.Name()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("%w: no run directories in %s", ErrNoPostContent, postsDir)
	}
	return filepath.Join(postsDir, latest), nil
}

// RunContent returns the post text saved in one run directory.
func RunContent(runDir string) (string, error) {
	outputPath := filepath.Join(runDir, FullOutputFile)
	data, err := os.ReadFile(outputPath)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrNoPostContent, outputPath, err)
	}

	content, err := ContentFromOutput(string(data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", outputPath, err)
	}
	return content, nil
}

// LatestRunContent returns the post text from the newest run under postsDir.
func LatestRunContent(postsDir string) (string, error) {
	runDir, err := LatestRunDir(postsDir)
	if err != nil {
		return "", err
	}
	return RunContent(runDir)
}

// ContentFromOutput extracts the post text from combined pipeline output.
// Exact markers win; output that already looks like a finished post (emoji
// headline, hashtags, call to action) passes through whole; mangled markers
// get one relaxed-pattern attempt before giving up.
func ContentFromOutput(output string) (string, error) {
	start := Marker(SectionPost, false)
	end := Marker(SectionPost, true)

	var content string
	switch {
	case strings.Contains(output, start) && strings.Contains(output, end):
		content = strings.Split(strings.Split(output, start)[1], end)[0]
	case looksLikePost(output):
		content = output
	default:
		match := relaxedPostPattern.FindStringSubmatch(output)
		if match == nil {
			return "", fmt.Errorf("%w: no post section markers in output", ErrNoPostContent)
		}
		content = match[1]
	}

	content = strings.TrimSpace(strings.ReplaceAll(content, "**", ""))
	if content == "" {
		return "", fmt.Errorf("%w: post section was empty", ErrNoPostContent)
	}
	return content, nil
}

var relaxedPostPattern = regexp.MustCompile(`(?s)---POST.*?START---(.+?)---POST.*?END---`)

func looksLikePost(content string) bool {
	return strings.Contains(content, "🔥") &&
		strings.Contains(content, "#") &&
		strings.Contains(content, "Call to Action:")
}
