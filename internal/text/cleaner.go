package text

import (
	"regexp"
	"strings"
)

// Cleaner normalizes extracted text without merging lines, since line
// structure carries the pricing section and menu headers.
type Cleaner struct {
	enabled bool

	horizontalSpaceRegex  *regexp.Regexp
	multipleNewlinesRegex *regexp.Regexp
	controlCharsRegex     *regexp.Regexp
}

func NewCleaner(enabled bool) *Cleaner {
	return &Cleaner{
		enabled:               enabled,
		horizontalSpaceRegex:  regexp.MustCompile(`[ \t\f\v\x{00A0}]+`),
		multipleNewlinesRegex: regexp.MustCompile(`\n{3,}`),
		controlCharsRegex:     regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`),
	}
}

func (c *Cleaner) Clean(text string) string {
	if !c.enabled {
		return text
	}

	cleaned := strings.ReplaceAll(text, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")

	cleaned = c.horizontalSpaceRegex.ReplaceAllString(cleaned, " ")

	cleaned = c.controlCharsRegex.ReplaceAllString(cleaned, "")

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	cleaned = strings.Join(lines, "\n")

	cleaned = c.multipleNewlinesRegex.ReplaceAllString(cleaned, "\n\n")

	return strings.Trim(cleaned, "\n ")
}
