package extract

import (
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const untitledEvent = "Untitled Event"

var (
	eventNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:event|function|occasion):\s*(.+)$`),
		regexp.MustCompile(`(?i)^(?:event|function|occasion)\s+name:\s*(.+)$`),
		regexp.MustCompile(`(?i)^(?:catering|menu)\s+for:\s*(.+)$`),
	}

	headerExclusions = []string{"date:", "time:", "price:", "location:", "menu:", "contact:"}

	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// EventName resolves an event name from an explicit label in the first 15
// lines, a header-like line in the first 10, or the filename. It never
// returns an empty string.
func EventName(lines []string, filename string) string {
	if name := labelledName(lines); name != "" {
		return name
	}
	if name := headerName(lines); name != "" {
		return name
	}
	return TitleFromFilename(filename)
}

func labelledName(lines []string) string {
	for _, line := range head(lines, 15) {
		line = strings.TrimSpace(line)
		for _, re := range eventNamePatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				return strings.TrimSpace(m[1])
			}
		}
	}
	return ""
}

func headerName(lines []string) string {
	for _, line := range head(lines, 10) {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= 10 {
			continue
		}
		if strings.HasPrefix(line, "$") {
			continue
		}
		if first, _ := utf8.DecodeRuneInString(line); unicode.IsDigit(first) {
			continue
		}
		lower := strings.ToLower(line)
		excluded := false
		for _, token := range headerExclusions {
			if strings.Contains(lower, token) {
				excluded = true
				break
			}
		}
		if !excluded {
			return line
		}
	}
	return ""
}

func head(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

// TitleFromFilename turns "Summer_Party_2024.pdf" into "Summer Party 2024".
func TitleFromFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	title := strings.TrimSpace(titleCase(strings.ReplaceAll(base, "_", " ")))
	if title == "" {
		return untitledEvent
	}
	return title
}

// titleCase upper-cases the first letter of each run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// NameVariations returns, in order: the name, its lowercase form, the
// lowercase form without punctuation, and the words longer than two
// characters.
func NameVariations(name string) []string {
	var keywords []string
	for _, word := range strings.Fields(name) {
		if utf8.RuneCountInString(word) > 2 {
			keywords = append(keywords, word)
		}
	}
	return []string{
		name,
		strings.ToLower(name),
		strings.ToLower(punctuationRe.ReplaceAllString(name, "")),
		strings.Join(keywords, " "),
	}
}
