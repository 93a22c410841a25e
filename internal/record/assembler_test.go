package record

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEMYSESx/menu-ingest/internal/extract"
	"github.com/NEMYSESx/menu-ingest/internal/models"
	"github.com/NEMYSESx/menu-ingest/internal/pricing"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func assertSameAmount(t *testing.T, want, got *decimal.Decimal, field string) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, field)
		return
	}
	require.NotNil(t, got, field)
	assert.Truef(t, want.Equal(*got), "%s: want %s, got %s", field, want, got)
}

func TestSummaryRoundTrip(t *testing.T) {
	summaries := []models.PricingSummary{
		{
			Subtotal:      dec("1615.00"),
			ServiceFee:    dec("290.70"),
			DeliverySetup: dec("75.00"),
			Tax:           dec("133.24"),
			TaxRate:       dec("8.25"),
			GrandTotal:    dec("2113.94"),
		},
		{GrandTotal: dec("12500.5")},
		{Tax: dec("7"), TaxRate: dec("7.5"), ServiceFee: dec("0")},
		{Subtotal: dec("1234567.89")},
	}

	for _, want := range summaries {
		lines := SummaryLines(want)
		text := "Pricing\n" + strings.Join(lines, "\n")
		got := pricing.Parse(text).Summary

		assertSameAmount(t, want.Subtotal, got.Subtotal, "subtotal")
		assertSameAmount(t, want.ServiceFee, got.ServiceFee, "service_fee")
		assertSameAmount(t, want.DeliverySetup, got.DeliverySetup, "delivery_setup")
		assertSameAmount(t, want.Tax, got.Tax, "tax")
		assertSameAmount(t, want.TaxRate, got.TaxRate, "tax_rate")
		assertSameAmount(t, want.GrandTotal, got.GrandTotal, "grand_total")
	}
}

func TestSummaryLinesOmitMissingFields(t *testing.T) {
	assert.Empty(t, SummaryLines(models.PricingSummary{}))
	assert.Equal(t, []string{"Grand Total = $99.50"}, SummaryLines(models.PricingSummary{GrandTotal: dec("99.5")}))
	assert.Equal(t, []string{"8.25% Tax = $206.25"}, SummaryLines(models.PricingSummary{Tax: dec("206.25"), TaxRate: dec("8.25")}))
}

const weddingDoc = `Event: Lee Wedding
Time: 6:00 PM
Guest Count: 40

Pricing
Chicken Entree at $25.00 per guest x 40 guests = $1000.00
Bartender at $40.00 x = $40.00
Cake Cutting = $80.00
Centerpieces = TBD
8.25% tax = $92.40
Grand Total = $1,212.40

Dinner Menu
Chicken Marsala
`

func TestRenderDetails(t *testing.T) {
	record := extract.NewExtractor().Extract(weddingDoc, "lee.pdf")
	details := RenderDetails(record)

	want := `Event: Lee Wedding
Date: Not specified
Time: 6:00 PM
Guest Count: 40
Location: Not specified
Invoice: Not specified
Contact: Not specified
Email: Not specified
Phone: Not specified

Setup Notes:
No setup notes provided

Pricing Information:
- $25.00
- $1000.00
- $40.00
- $40.00
- $80.00
- $92.40
- $1,212.40

Menu Items:

Dinner Menu:
- Chicken Marsala

Detailed Pricing Breakdown:

Per Person Charges:
- Chicken Entree at $25.00 per guest x 40 guests = $1000.00

Staff Charges:
- Bartender at $40.00 x = $40.00

Additional Charges:
- Cake Cutting = $80.00

TBD Charges:
- Centerpieces = TBD

Summary:
8.25% Tax = $92.40
Grand Total = $1212.40
`
	assert.Equal(t, want, details)
}

func TestRenderDetailsWithoutPricing(t *testing.T) {
	details := RenderDetails(models.EventRecord{EventName: "Quiet Brunch"})

	assert.Contains(t, details, "Event: Quiet Brunch\n")
	assert.Contains(t, details, "Date: Not specified\n")
	assert.True(t, strings.HasSuffix(details, "Detailed Pricing Breakdown:\n"))
	assert.NotContains(t, details, "Summary:")
	assert.NotContains(t, details, "$0.00")
}

func TestDocuments(t *testing.T) {
	record := extract.NewExtractor().Extract(weddingDoc, "lee.pdf")
	docs := Documents(record)
	require.Len(t, docs, 2)

	menu := docs[0]
	assert.Equal(t, models.DocumentTypeEventMenu, menu.DocumentType)
	assert.Equal(t, weddingDoc, menu.Content)
	assert.Equal(t, "event_menu", menu.Metadata["document_type"])
	assert.Equal(t, "Lee Wedding", menu.Metadata["event_name"])
	assert.Equal(t, "40", menu.Metadata["guest_count"])
	assert.Equal(t, "lee.pdf", menu.Metadata["source_filename"])
	assert.NotContains(t, menu.Metadata, "date")
	assert.NotContains(t, menu.Metadata, "pricing_breakdown")

	details := docs[1]
	assert.Equal(t, models.DocumentTypeEventDetails, details.DocumentType)
	assert.Equal(t, "event_details", details.Metadata["document_type"])
	assert.Equal(t, record.NameVariations, details.Metadata["event_name_variations"])
	assert.Equal(t, record.PricingBreakdown, details.Metadata["pricing_breakdown"])
	assert.NotContains(t, details.Metadata, "full_text")
	assert.Equal(t, "lee.pdf", details.SourceFilename)
}
