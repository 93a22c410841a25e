// Package pricing classifies the lines of a document's pricing section into
// per-person, staff, flat, TBD and summary charges.
//
// Subtotal lines are a kind of their own, checked ahead of TBD and flat
// charges, so a rendered summary parses back to the same subtotal instead of
// being counted as a flat charge.
package pricing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

type Kind int

const (
	KindUnmatched Kind = iota
	KindPerPerson
	KindStaff
	KindTax
	KindServiceFee
	KindDeliverySetup
	KindGrandTotal
	KindSubtotal
	KindTBD
	KindFlat
)

func (k Kind) String() string {
	switch k {
	case KindPerPerson:
		return "per_person"
	case KindStaff:
		return "staff"
	case KindTax:
		return "tax"
	case KindServiceFee:
		return "service_fee"
	case KindDeliverySetup:
		return "delivery_setup"
	case KindGrandTotal:
		return "grand_total"
	case KindSubtotal:
		return "subtotal"
	case KindTBD:
		return "tbd"
	case KindFlat:
		return "flat"
	}
	return "unmatched"
}

// All patterns are anchored at the line start.
var (
	sectionHeaderRe = regexp.MustCompile(`(?i)^\s*pricing\s*$`)

	perPersonRe  = regexp.MustCompile(`(?i)^(?P<item>.*?)\s*at\s*\$(?P<price>[\d,.]+)\s*per\s*guest\s*x\s*(?P<guests>\d+)\s*guests?\s*=\s*\$(?P<total>[\d,.]+)`)
	staffRe      = regexp.MustCompile(`(?i)^(?P<role>.*?)\s*at\s*\$(?P<rate>[\d,.]+)\s*x\s*(?P<count>\d+)?\s*=\s*\$(?P<total>[\d,.]+)`)
	taxRe        = regexp.MustCompile(`(?i)^(?P<rate>[\d.]+)\s*%\s*tax\s*=\s*\$(?P<amount>[\d,.]+)`)
	serviceRe    = regexp.MustCompile(`(?i)^service\s*fee\s*=\s*\$(?P<amount>[\d,.]+)`)
	deliveryRe   = regexp.MustCompile(`(?i)^delivery\s*(?:&|and)\s*set-?up\s*fee\s*=\s*\$(?P<amount>[\d,.]+)`)
	grandTotalRe = regexp.MustCompile(`(?i)^grand\s*total\s*=\s*\$(?P<amount>[\d,.]+)`)
	subtotalRe   = regexp.MustCompile(`(?i)^sub-?\s*total\s*=\s*\$(?P<amount>[\d,.]+)`)
	tbdRe        = regexp.MustCompile(`(?i)^(?P<item>.*?)\s*=\s*(?:t\.b\.d\.|TBD)`)
	flatRe       = regexp.MustCompile(`(?i)^(?P<item>.*?)\s*=\s*\$(?P<amount>[\d,.]+)`)
)

// flatExclusions are matched as substrings of the lowercased item label.
var flatExclusions = []string{"total", "sub-total", "service fee", "tax"}

type rule struct {
	kind  Kind
	apply func(line string, b *models.PricingBreakdown) bool
}

// rules is ordered by precedence; the first rule that applies claims the line.
var rules = []rule{
	{KindPerPerson, applyPerPerson},
	{KindStaff, applyStaff},
	{KindTax, applyTax},
	{KindServiceFee, summaryRule(serviceRe, func(s *models.PricingSummary, d decimal.Decimal) { s.ServiceFee = &d })},
	{KindDeliverySetup, summaryRule(deliveryRe, func(s *models.PricingSummary, d decimal.Decimal) { s.DeliverySetup = &d })},
	{KindGrandTotal, summaryRule(grandTotalRe, func(s *models.PricingSummary, d decimal.Decimal) { s.GrandTotal = &d })},
	{KindSubtotal, summaryRule(subtotalRe, func(s *models.PricingSummary, d decimal.Decimal) { s.Subtotal = &d })},
	{KindTBD, applyTBD},
	{KindFlat, applyFlat},
}

// Section returns the trimmed lines following the first standalone
// "Pricing" header, up to a blank line or a line starting with "menu" or
// "contact". It returns nil when no header exists.
func Section(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !sectionHeaderRe.MatchString(line) {
			continue
		}

		section := []string{}
		for _, next := range lines[i+1:] {
			trimmed := strings.TrimSpace(next)
			if trimmed == "" {
				break
			}
			lower := strings.ToLower(trimmed)
			if strings.HasPrefix(lower, "menu") || strings.HasPrefix(lower, "contact") {
				break
			}
			section = append(section, trimmed)
		}
		return section
	}
	return nil
}

// Parse locates the pricing section of a document and classifies it.
func Parse(text string) models.PricingBreakdown {
	return ParseLines(Section(text))
}

func ParseLines(lines []string) models.PricingBreakdown {
	breakdown := models.NewPricingBreakdown()
	for _, line := range lines {
		parseLine(line, &breakdown)
	}
	return breakdown
}

// Classify reports which category a single line would be assigned to.
func Classify(line string) Kind {
	scratch := models.NewPricingBreakdown()
	return parseLine(line, &scratch)
}

func parseLine(line string, b *models.PricingBreakdown) Kind {
	line = strings.TrimSpace(line)
	if line == "" {
		return KindUnmatched
	}
	for _, r := range rules {
		if r.apply(line, b) {
			return r.kind
		}
	}
	return KindUnmatched
}

func applyPerPerson(line string, b *models.PricingBreakdown) bool {
	m := namedGroups(perPersonRe, line)
	if m == nil {
		return false
	}
	price, err := parseAmount(m["price"])
	if err != nil {
		return false
	}
	guests, err := strconv.Atoi(m["guests"])
	if err != nil {
		return false
	}
	total, err := parseAmount(m["total"])
	if err != nil {
		return false
	}

	b.PerPersonCharges = append(b.PerPersonCharges, models.PerPersonCharge{
		Item:           strings.TrimSpace(m["item"]),
		PricePerPerson: price,
		GuestCount:     guests,
		Total:          total,
		RawLine:        line,
	})
	return true
}

func applyStaff(line string, b *models.PricingBreakdown) bool {
	if strings.Contains(strings.ToLower(line), "guest") {
		return false
	}
	m := namedGroups(staffRe, line)
	if m == nil {
		return false
	}
	rate, err := parseAmount(m["rate"])
	if err != nil {
		return false
	}
	total, err := parseAmount(m["total"])
	if err != nil {
		return false
	}
	count := 1
	if m["count"] != "" {
		if count, err = strconv.Atoi(m["count"]); err != nil {
			return false
		}
	}

	b.StaffCharges = append(b.StaffCharges, models.StaffCharge{
		Role:    strings.TrimSpace(m["role"]),
		Rate:    rate,
		Count:   count,
		Total:   total,
		RawLine: line,
	})
	return true
}

func applyTax(line string, b *models.PricingBreakdown) bool {
	m := namedGroups(taxRe, line)
	if m == nil {
		return false
	}
	rate, err := decimal.NewFromString(m["rate"])
	if err != nil {
		return false
	}
	amount, err := parseAmount(m["amount"])
	if err != nil {
		return false
	}

	b.Summary.TaxRate = &rate
	b.Summary.Tax = &amount
	return true
}

func summaryRule(re *regexp.Regexp, set func(s *models.PricingSummary, d decimal.Decimal)) func(string, *models.PricingBreakdown) bool {
	return func(line string, b *models.PricingBreakdown) bool {
		m := namedGroups(re, line)
		if m == nil {
			return false
		}
		amount, err := parseAmount(m["amount"])
		if err != nil {
			return false
		}
		set(&b.Summary, amount)
		return true
	}
}

func applyTBD(line string, b *models.PricingBreakdown) bool {
	m := namedGroups(tbdRe, line)
	if m == nil {
		return false
	}
	b.AdditionalCharges = append(b.AdditionalCharges, models.AdditionalCharge{
		Item:    strings.TrimSpace(m["item"]),
		Amount:  models.AmountTBD,
		RawLine: line,
	})
	return true
}

func applyFlat(line string, b *models.PricingBreakdown) bool {
	m := namedGroups(flatRe, line)
	if m == nil {
		return false
	}
	item := strings.TrimSpace(m["item"])
	lower := strings.ToLower(item)
	for _, keyword := range flatExclusions {
		if strings.Contains(lower, keyword) {
			return false
		}
	}
	amount, err := parseAmount(m["amount"])
	if err != nil {
		return false
	}

	b.FlatCharges = append(b.FlatCharges, models.FlatCharge{
		Item:    item,
		Amount:  amount,
		RawLine: line,
	})
	return true
}

// parseAmount strips thousands separators before decimal conversion.
func parseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
}

func namedGroups(re *regexp.Regexp, line string) map[string]string {
	match := re.FindStringSubmatch(line)
	if match == nil {
		return nil
	}
	groups := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = match[i]
		}
	}
	return groups
}
