package models

import "github.com/shopspring/decimal"

// AmountTBD marks an additional charge whose amount is not yet known.
const AmountTBD = "TBD"

type PerPersonCharge struct {
	Item           string          `json:"item"`
	PricePerPerson decimal.Decimal `json:"price_per_person"`
	GuestCount     int             `json:"guest_count"`
	Total          decimal.Decimal `json:"total"`
	RawLine        string          `json:"line_item"`
}

type StaffCharge struct {
	Role    string          `json:"role"`
	Rate    decimal.Decimal `json:"rate"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	RawLine string          `json:"line_item"`
}

type FlatCharge struct {
	Item    string          `json:"item"`
	Amount  decimal.Decimal `json:"amount"`
	RawLine string          `json:"line_item"`
}

type AdditionalCharge struct {
	Item    string `json:"item"`
	Amount  string `json:"amount"`
	RawLine string `json:"line_item"`
}

// PricingSummary holds aggregate lines. TaxRate is a percentage (8.25, not 0.0825).
type PricingSummary struct {
	Subtotal      *decimal.Decimal `json:"subtotal,omitempty"`
	ServiceFee    *decimal.Decimal `json:"service_fee,omitempty"`
	DeliverySetup *decimal.Decimal `json:"delivery_setup,omitempty"`
	Tax           *decimal.Decimal `json:"tax,omitempty"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	GrandTotal    *decimal.Decimal `json:"grand_total,omitempty"`
}

func (s PricingSummary) IsEmpty() bool {
	return s.Subtotal == nil && s.ServiceFee == nil && s.DeliverySetup == nil &&
		s.Tax == nil && s.TaxRate == nil && s.GrandTotal == nil
}

type PricingBreakdown struct {
	PerPersonCharges  []PerPersonCharge  `json:"per_person_charges"`
	StaffCharges      []StaffCharge      `json:"staff_charges"`
	FlatCharges       []FlatCharge       `json:"flat_charges"`
	AdditionalCharges []AdditionalCharge `json:"additional_charges"`
	Summary           PricingSummary     `json:"summary"`
}

func NewPricingBreakdown() PricingBreakdown {
	return PricingBreakdown{
		PerPersonCharges:  []PerPersonCharge{},
		StaffCharges:      []StaffCharge{},
		FlatCharges:       []FlatCharge{},
		AdditionalCharges: []AdditionalCharge{},
	}
}

func (b PricingBreakdown) LineCount() int {
	return len(b.PerPersonCharges) + len(b.StaffCharges) + len(b.FlatCharges) + len(b.AdditionalCharges)
}
