package post

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Section header cues. The bare colon catches labeled lines like
// "Key Points:" wherever the colon falls.
var headerIndicators = []string{
	":",
	"🔥", "💡", "🚀", "🌎", "🤔", "🗣️",
	"Breaking News",
	"Why",
	"Impact",
	"Take",
	"Question",
	"Call to Action",
}

// FormatForLinkedIn reshapes a generated draft into the plain-text layout the
// share box expects: markdown stripped, sections separated by single blank
// lines, bullet groups kept together, and hashtags collapsed onto one
// trailing line.
func FormatForLinkedIn(content string) string {
	content = strings.ReplaceAll(content, "**", "")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	var sections []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
	}

	for i, line := range lines {
		if strings.HasPrefix(line, "---") {
			continue
		}

		if isHeaderLine(line, i) {
			flush()
			sections = append(sections, line)
			continue
		}

		if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") {
			if len(current) > 0 && !isBullet(current[len(current)-1]) {
				flush()
			}
			current = append(current, line)
			continue
		}

		if strings.HasPrefix(line, "#") {
			flush()
			sections = append(sections, line)
			continue
		}

		current = append(current, line)
	}
	flush()

	var formatted strings.Builder
	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		if formatted.Len() > 0 {
			formatted.WriteString("\n")
		}
		formatted.WriteString(section)
	}
	text := formatted.String()

	// The hashtag line often arrives with stray spacing or split across
	// lines; rejoin every tag onto one line after the body.
	if strings.Contains(text, "#") {
		parts := strings.Split(text, "#")
		main := strings.TrimSpace(parts[0])
		tags := make([]string, 0, len(parts)-1)
		for _, part := range parts[1:] {
			tags = append(tags, strings.TrimSpace(part))
		}
		text = main + "\n#" + strings.Join(tags, " #")
	}

	return strings.TrimSpace(text)
}

func isHeaderLine(line string, index int) bool {
	for _, indicator := range headerIndicators {
		if strings.Contains(line, indicator) {
			return true
		}
	}
	if index > 0 && utf8.RuneCountInString(line) <= 50 && isAllUpper(line) {
		return true
	}
	if index > 0 && strings.HasSuffix(line, ":") {
		return true
	}
	return false
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-")
}

// isAllUpper reports whether s has at least one cased rune and no lowercase
// ones. Digits and punctuation don't count either way.
func isAllUpper(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
