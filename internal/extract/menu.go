package extract

import (
	"regexp"
	"strings"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

var (
	sectionKeywordRe = regexp.MustCompile(`(?i)menu|breakfast|lunch|dinner|appetizers|entrees|desserts|beverages`)

	// Case-sensitive prefixes of lines never captured as menu items.
	itemSkipPrefixes = []string{"$", "Price", "Total", "Contact", "Phone", "Email"}
)

// MenuSections groups lines under the most recent keyword header. A header
// seen twice keeps its first position but restarts its item list. Lines
// before the first header are ignored.
func MenuSections(lines []string) models.MenuSections {
	sections := models.MenuSections{}
	current := -1

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if sectionKeywordRe.MatchString(line) {
			current = indexOf(sections, line)
			if current < 0 {
				sections = append(sections, models.MenuSection{Header: line, Items: []string{}})
				current = len(sections) - 1
			} else {
				sections[current].Items = []string{}
			}
			continue
		}

		if current < 0 || hasAnyPrefix(line, itemSkipPrefixes) {
			continue
		}
		sections[current].Items = append(sections[current].Items, line)
	}

	return sections
}

func indexOf(sections models.MenuSections, header string) int {
	for i, s := range sections {
		if s.Header == header {
			return i
		}
	}
	return -1
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
