package extract

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

const reunionDoc = `Event: Smith Family Reunion
Time: 5:00 PM - 10:00 PM
Date: June 15, 2024
Guest Count: 120
Location: Riverside Park Pavilion
Invoice #: INV2024
Contact: Sarah Smith
Email: sarah.smith@example.com
Phone: 555-123-4567
Setup: Tables in U-shape
Linens provided by venue
Notes: Gate code 1234

Pricing
Chicken Entree at $25.00 per guest x 40 guests = $1000.00
Servers at $35.00 x 3 = $105.00
Centerpieces = TBD
8.25% tax = $91.16
Grand Total = $1,196.16

Dinner Menu
Caesar Salad
Grilled Salmon
Price: $45.00 per person
Desserts
Chocolate Cake
`

func TestExtractFullDocument(t *testing.T) {
	record := NewExtractor().Extract(reunionDoc, "smith_reunion.pdf")

	assert.Equal(t, "Smith Family Reunion", record.EventName)
	assert.Equal(t, "5:00 PM - 10:00 PM", record.Time)
	assert.Equal(t, "June 15, 2024", record.Date)
	assert.Equal(t, "120", record.GuestCount)
	assert.Equal(t, "Riverside Park Pavilion", record.Location)
	assert.Equal(t, "INV2024", record.InvoiceNo)
	assert.Equal(t, "Sarah Smith", record.Contact)
	assert.Equal(t, "sarah.smith@example.com", record.Email)
	assert.Equal(t, "555-123-4567", record.Phone)
	assert.Equal(t, "Tables in U-shape\nLinens provided by venue", record.SetupNotes)
	assert.Equal(t, reunionDoc, record.FullText)
	assert.Equal(t, "smith_reunion.pdf", record.SourceFilename)

	assert.Equal(t, []string{
		"$25.00", "$1000.00", "$35.00", "$105.00", "$91.16", "$1,196.16",
		"$45.00 per person",
		"Price: $45.00",
	}, record.Prices)

	require.Len(t, record.MenuItems, 2)
	assert.Equal(t, "Dinner Menu", record.MenuItems[0].Header)
	assert.Equal(t, []string{"Caesar Salad", "Grilled Salmon"}, record.MenuItems[0].Items)
	assert.Equal(t, "Desserts", record.MenuItems[1].Header)
	assert.Equal(t, []string{"Chocolate Cake"}, record.MenuItems[1].Items)

	b := record.PricingBreakdown
	require.Len(t, b.PerPersonCharges, 1)
	require.Len(t, b.StaffCharges, 1)
	require.Len(t, b.AdditionalCharges, 1)
	require.NotNil(t, b.Summary.TaxRate)
	assert.True(t, b.Summary.TaxRate.Equal(decimal.RequireFromString("8.25")))
	require.NotNil(t, b.Summary.GrandTotal)
	assert.True(t, b.Summary.GrandTotal.Equal(decimal.RequireFromString("1196.16")))
}

func TestExtractMissingFieldsStayEmpty(t *testing.T) {
	record := NewExtractor().Extract("Hi there", "notes.txt")

	assert.Equal(t, "Notes", record.EventName)
	assert.Empty(t, record.Date)
	assert.Empty(t, record.Time)
	assert.Empty(t, record.GuestCount)
	assert.Empty(t, record.Location)
	assert.Empty(t, record.SetupNotes)
	assert.Empty(t, record.InvoiceNo)
	assert.Empty(t, record.Contact)
	assert.Empty(t, record.Email)
	assert.Empty(t, record.Phone)
	assert.NotNil(t, record.Prices)
	assert.Empty(t, record.Prices)
	assert.Empty(t, record.MenuItems)
	assert.Equal(t, 0, record.PricingBreakdown.LineCount())
}

func TestFieldFallbackPatterns(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field func(r models.EventRecord) string
		want  string
	}{
		{"time via at", "Served at noon sharp", func(r models.EventRecord) string { return r.Time }, "noon sharp"},
		{"time via clock", "Doors 6:30 pm - 9:00 pm", func(r models.EventRecord) string { return r.Time }, "6:30 pm - 9:00 pm"},
		{"date numeric", "Booked 7/4/2025 for the party", func(r models.EventRecord) string { return r.Date }, "7/4/2025"},
		{"guests serving", "Buffet serving 75 guests", func(r models.EventRecord) string { return r.GuestCount }, "75"},
		{"guest range", "Guests: about 40-50", func(r models.EventRecord) string { return r.GuestCount }, "about 40-50"},
		{"email bare", "Reply to info@caterer.com please", func(r models.EventRecord) string { return r.Email }, "info@caterer.com"},
		{"phone described", "Cell (mobile): 555 987 6543", func(r models.EventRecord) string { return r.Phone }, "555 987 6543"},
		{"venue", "Venue: The Loft", func(r models.EventRecord) string { return r.Location }, "The Loft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := NewExtractor().Extract(tt.text, "doc.pdf")
			assert.Equal(t, tt.want, tt.field(record))
		})
	}
}

func TestFirstMatchIsNeverOverwritten(t *testing.T) {
	text := "Location: Hall A\nLocation: Hall B\nContact: Ann\nContact Person: Bob"
	record := NewExtractor().Extract(text, "x.pdf")

	assert.Equal(t, "Hall A", record.Location)
	assert.Equal(t, "Ann", record.Contact)
}

func TestPricesAccumulateDuplicates(t *testing.T) {
	prices := Prices("Lunch $20.00 pp\nSnack $20.00 pp\ncost: $5")
	assert.Equal(t, []string{"$20.00 pp", "$20.00 pp", "$5", "cost: $5"}, prices)
}

func TestSetupNotes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"single line", "Setup: Buffet on left wall", "Buffet on left wall"},
		{"continuation stops at label", "Setup Notes: Round tables\nWhite linens\nDate: June 1", "Round tables\nWhite linens"},
		{"continuation stops at blank line", "Set up: Stage left\n\nExtra line", "Stage left"},
		{"last block wins", "Setup: first\n\nSet up: second\n  indented more", "second\n  indented more"},
		{"continuation stops at accented label", "Setup: Tables by the window\nLinens white\nDécor: gold candles", "Tables by the window\nLinens white"},
		{"absent", "Nothing here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SetupNotes(tt.text))
		})
	}
}

func TestExtractAccentedDate(t *testing.T) {
	record := NewExtractor().Extract("Event: Dîner\nDate: 15 février 2025\n", "x.pdf")
	assert.Equal(t, "15 février 2025", record.Date)
}

func TestExtractDoesNotPanicOnOddInput(t *testing.T) {
	inputs := []string{"", "\n\n\n", "Pricing", "Setup:", strings.Repeat("$", 50), "Event:"}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			record := NewExtractor().Extract(in, "")
			assert.NotEmpty(t, record.EventName)
		})
	}
}
