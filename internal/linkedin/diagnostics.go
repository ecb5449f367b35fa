package linkedin

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"

	"herald/internal/logging"
)

const (
	timestampLayout = "20060102_150405"
	sourcePreview   = 1000
)

// Diagnostics records what the page looked like when a step failed. Captures
// are best effort; a diagnostics failure never masks the original error.
type Diagnostics struct {
	dir    string
	logger logging.Logger
}

func NewDiagnostics(dir string, logger logging.Logger) *Diagnostics {
	if dir == "" {
		dir = "."
	}
	return &Diagnostics{dir: dir, logger: logger}
}

// Capture saves a screenshot named label_timestamp.png and logs a page source
// preview. Returns the screenshot path, or "" when the capture failed.
func (d *Diagnostics) Capture(page *rod.Page, label string) string {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		d.logger.WithError(err).Warn("Failed to create screenshot directory")
		return ""
	}

	path := filepath.Join(d.dir, captureName(label, time.Now()))

	shot, err := page.Screenshot(false, nil)
	if err != nil {
		d.logger.WithError(err).Warn("Failed to capture screenshot")
		return ""
	}
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		d.logger.WithError(err).Warn("Failed to write screenshot")
		return ""
	}

	entry := d.logger.WithField("screenshot", path)
	if html, htmlErr := page.HTML(); htmlErr == nil {
		if len(html) > sourcePreview {
			html = html[:sourcePreview]
		}
		entry = entry.WithField("page_source", html)
	}
	entry.Warn("Saved failure diagnostics")

	return path
}

// captureName builds the screenshot filename for a failure label.
func captureName(label string, at time.Time) string {
	return fmt.Sprintf("%s_%s.png", label, at.Format(timestampLayout))
}
