// Package post handles generated post content: locating the latest pipeline
// output, pulling sections out of marker-delimited text, and shaping a draft
// into LinkedIn's plain-text form.
package post

import (
	"fmt"
	"regexp"
	"strings"
)

// Section names used in pipeline output markers.
const (
	SectionStory    = "STORY"
	SectionAnalysis = "ANALYSIS"
	SectionPost     = "POST"
)

// Marker returns the start or end marker line for a section name.
func Marker(section string, end bool) string {
	if end {
		return fmt.Sprintf("---%s END---", section)
	}
	return fmt.Sprintf("---%s START---", section)
}

// ExtractSection pulls one marker-delimited section out of pipeline output.
// Model output drifts, so a relaxed pattern backs up the exact markers.
func ExtractSection(content, section string) (string, bool) {
	start := Marker(section, false)
	end := Marker(section, true)

	if strings.Contains(content, start) && strings.Contains(content, end) {
		segment := strings.Split(content, start)[1]
		return strings.TrimSpace(strings.Split(segment, end)[0]), true
	}

	pattern := regexp.MustCompile(`(?s)---` + section + `.*?START---(.+?)---` + section + `.*?END---`)
	if match := pattern.FindStringSubmatch(content); match != nil {
		return strings.TrimSpace(match[1]), true
	}

	return "", false
}
