// Package extract turns the raw text of a catering document into an
// EventRecord. Field patterns are case-insensitive and multi-line; a field
// missing from the text is simply left empty.
package extract

import (
	"regexp"
	"strings"

	"github.com/NEMYSESx/menu-ingest/internal/models"
	"github.com/NEMYSESx/menu-ingest/internal/pricing"
)

// Patterns per field, tried in order.
var (
	pricePatterns = compileAll(
		`\$[\d,]+(?:\.\d{2})?(?:\s*(?:per person|pp|p/p))?`,
		`(?:price|cost|total):\s*\$[\d,]+(?:\.\d{2})?`,
		`(?:per person|pp|p/p):\s*\$[\d,]+(?:\.\d{2})?`,
	)
	datePatterns = compileAll(
		`(?:date:|on:?)\s*([\p{L}\p{N}_\s,.&]+\d{2,4})`,
		`(\d{1,2}[./]\d{1,2}[./]\d{2,4})`,
		`([A-Z][a-z]+ \d{1,2}(?:st|nd|rd|th)?,? \d{4})`,
	)
	timePatterns = compileAll(
		`(?:times?:|at:?)\s*([^\n]+)`,
		`(\d{1,2}:\d{2}\s*(?:AM|PM|am|pm)(?:\s*-\s*\d{1,2}:\d{2}\s*(?:AM|PM|am|pm))?)`,
	)
	guestCountPatterns = compileAll(
		`(?:guests?|people|attendees|count):\s*(\d+)`,
		`(?:for|serving)\s+(\d+)\s+(?:people|guests|attendees)`,
		`guests?:\s*([^\n]+)`,
	)
	locationPatterns = compileAll(`(?:location|venue|place):\s*([^\n]+)`)
	invoicePatterns  = compileAll(`(?:invoice\s*(?:no|number|#)?:?\s*)([A-Z0-9]+)`)
	contactPatterns  = compileAll(`(?:contact|contact person):\s*([^\n]+)`)
	emailPatterns    = compileAll(
		`(?:email|e-mail):\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,
		`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,
	)
	phonePatterns = compileAll(
		`(?:phone|cell|tel):\s*([0-9.()-]+)`,
		`(?:phone|cell|tel)[^:]*:\s*([^\n]+)`,
	)

	setupNotesRe = regexp.MustCompile(`(?im)(?:setup|set up|setup notes):\s*([^\n]+)`)
	fieldLabelRe = regexp.MustCompile(`^[\p{L}\p{N}_]+:`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?im)` + p)
	}
	return compiled
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract builds a complete EventRecord, including the pricing breakdown,
// from document text. filename is the fallback source for the event name.
func (e *Extractor) Extract(text, filename string) models.EventRecord {
	lines := strings.Split(text, "\n")
	name := EventName(lines, filename)

	return models.EventRecord{
		EventName:        name,
		NameVariations:   NameVariations(name),
		Date:             firstMatch(text, datePatterns),
		Time:             firstMatch(text, timePatterns),
		GuestCount:       firstMatch(text, guestCountPatterns),
		Location:         firstMatch(text, locationPatterns),
		SetupNotes:       SetupNotes(text),
		InvoiceNo:        firstMatch(text, invoicePatterns),
		Contact:          firstMatch(text, contactPatterns),
		Email:            firstMatch(text, emailPatterns),
		Phone:            firstMatch(text, phonePatterns),
		Prices:           Prices(text),
		MenuItems:        MenuSections(lines),
		PricingBreakdown: pricing.Parse(text),
		FullText:         text,
		SourceFilename:   filename,
	}
}

// firstMatch returns the first non-empty trimmed capture over all patterns
// in order. Later patterns never override an earlier hit.
func firstMatch(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if value := strings.TrimSpace(m[1]); value != "" {
				return value
			}
		}
	}
	return ""
}

// Prices collects every whole price match, pattern by pattern, duplicates included.
func Prices(text string) []string {
	prices := []string{}
	for _, re := range pricePatterns {
		prices = append(prices, re.FindAllString(text, -1)...)
	}
	return prices
}

// SetupNotes returns the last setup block in the text. A block continues over
// following non-empty lines until one starts with a "word:" label.
func SetupNotes(text string) string {
	notes := ""
	pos := 0
	for pos < len(text) {
		loc := setupNotesRe.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}

		block := text[pos+loc[2] : pos+loc[3]]
		end := pos + loc[1]
		for end < len(text) && text[end] == '\n' {
			next := text[end+1:]
			if i := strings.IndexByte(next, '\n'); i >= 0 {
				next = next[:i]
			}
			if next == "" || fieldLabelRe.MatchString(next) {
				break
			}
			block += "\n" + next
			end += 1 + len(next)
		}

		notes = strings.TrimSpace(block)
		if end == pos {
			end++
		}
		pos = end
	}
	return notes
}
