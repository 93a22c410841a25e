// Package record assembles the indexable documents for an extracted event.
package record

import (
	"fmt"
	"strings"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

const (
	notSpecified = "Not specified"
	noSetupNotes = "No setup notes provided"
)

// Documents returns the searchable menu document followed by the
// human-readable details document.
func Documents(r models.EventRecord) []models.IndexDocument {
	return []models.IndexDocument{MenuDocument(r), DetailsDocument(r)}
}

func MenuDocument(r models.EventRecord) models.IndexDocument {
	metadata := r.Fields()
	metadata["document_type"] = string(models.DocumentTypeEventMenu)
	if r.SourceFilename != "" {
		metadata["source_filename"] = r.SourceFilename
	}
	if r.SourceID != "" {
		metadata["source_id"] = r.SourceID
	}

	return models.IndexDocument{
		Content:        r.FullText,
		Metadata:       metadata,
		DocumentType:   models.DocumentTypeEventMenu,
		SourceFilename: r.SourceFilename,
		SourceID:       r.SourceID,
	}
}

func DetailsDocument(r models.EventRecord) models.IndexDocument {
	metadata := r.Fields()
	metadata["document_type"] = string(models.DocumentTypeEventDetails)
	metadata["event_name_variations"] = r.NameVariations
	metadata["pricing_breakdown"] = r.PricingBreakdown
	if r.SourceFilename != "" {
		metadata["source_filename"] = r.SourceFilename
	}
	if r.SourceID != "" {
		metadata["source_id"] = r.SourceID
	}

	return models.IndexDocument{
		Content:        RenderDetails(r),
		Metadata:       metadata,
		DocumentType:   models.DocumentTypeEventDetails,
		SourceFilename: r.SourceFilename,
		SourceID:       r.SourceID,
	}
}

// RenderDetails formats a record for human review. Missing text fields read
// "Not specified"; missing summary amounts are left out.
func RenderDetails(r models.EventRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Event: %s\n", r.EventName)
	fmt.Fprintf(&b, "Date: %s\n", orDefault(r.Date, notSpecified))
	fmt.Fprintf(&b, "Time: %s\n", orDefault(r.Time, notSpecified))
	fmt.Fprintf(&b, "Guest Count: %s\n", orDefault(r.GuestCount, notSpecified))
	fmt.Fprintf(&b, "Location: %s\n", orDefault(r.Location, notSpecified))
	fmt.Fprintf(&b, "Invoice: %s\n", orDefault(r.InvoiceNo, notSpecified))
	fmt.Fprintf(&b, "Contact: %s\n", orDefault(r.Contact, notSpecified))
	fmt.Fprintf(&b, "Email: %s\n", orDefault(r.Email, notSpecified))
	fmt.Fprintf(&b, "Phone: %s\n", orDefault(r.Phone, notSpecified))

	fmt.Fprintf(&b, "\nSetup Notes:\n%s\n", orDefault(r.SetupNotes, noSetupNotes))

	b.WriteString("\nPricing Information:\n")
	for _, price := range r.Prices {
		fmt.Fprintf(&b, "- %s\n", price)
	}

	b.WriteString("\nMenu Items:\n")
	for _, section := range r.MenuItems {
		fmt.Fprintf(&b, "\n%s:\n", section.Header)
		for _, item := range section.Items {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}

	b.WriteString("\nDetailed Pricing Breakdown:\n")
	renderBreakdown(&b, r.PricingBreakdown)

	return b.String()
}

func renderBreakdown(b *strings.Builder, p models.PricingBreakdown) {
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(b, "\n%s:\n", title)
		for _, line := range lines {
			fmt.Fprintf(b, "- %s\n", line)
		}
	}

	perPerson := make([]string, len(p.PerPersonCharges))
	for i, c := range p.PerPersonCharges {
		perPerson[i] = c.RawLine
	}
	staff := make([]string, len(p.StaffCharges))
	for i, c := range p.StaffCharges {
		staff[i] = c.RawLine
	}
	flat := make([]string, len(p.FlatCharges))
	for i, c := range p.FlatCharges {
		flat[i] = c.RawLine
	}
	tbd := make([]string, len(p.AdditionalCharges))
	for i, c := range p.AdditionalCharges {
		tbd[i] = c.RawLine
	}

	section("Per Person Charges", perPerson)
	section("Staff Charges", staff)
	section("Additional Charges", flat)
	section("TBD Charges", tbd)

	if summary := SummaryLines(p.Summary); len(summary) > 0 {
		b.WriteString("\nSummary:\n")
		for _, line := range summary {
			b.WriteString(line + "\n")
		}
	}
}

// SummaryLines renders populated summary fields in the same "label = $amount"
// form the pricing parser reads.
func SummaryLines(s models.PricingSummary) []string {
	var lines []string
	if s.Subtotal != nil {
		lines = append(lines, "Subtotal = $"+s.Subtotal.StringFixed(2))
	}
	if s.ServiceFee != nil {
		lines = append(lines, "Service Fee = $"+s.ServiceFee.StringFixed(2))
	}
	if s.DeliverySetup != nil {
		lines = append(lines, "Delivery & Set-up Fee = $"+s.DeliverySetup.StringFixed(2))
	}
	if s.Tax != nil {
		if s.TaxRate != nil {
			lines = append(lines, s.TaxRate.String()+"% Tax = $"+s.Tax.StringFixed(2))
		} else {
			lines = append(lines, "Tax = $"+s.Tax.StringFixed(2))
		}
	}
	if s.GrandTotal != nil {
		lines = append(lines, "Grand Total = $"+s.GrandTotal.StringFixed(2))
	}
	return lines
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
