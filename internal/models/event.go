package models

type EventRecord struct {
	EventName        string           `json:"event_name"`
	NameVariations   []string         `json:"event_name_variations"`
	Date             string           `json:"date,omitempty"`
	Time             string           `json:"time,omitempty"`
	GuestCount       string           `json:"guest_count,omitempty"`
	Location         string           `json:"location,omitempty"`
	SetupNotes       string           `json:"setup_notes,omitempty"`
	InvoiceNo        string           `json:"invoice_no,omitempty"`
	Contact          string           `json:"contact,omitempty"`
	Email            string           `json:"email,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	Prices           []string         `json:"prices"`
	MenuItems        MenuSections     `json:"menu_items"`
	PricingBreakdown PricingBreakdown `json:"pricing_breakdown"`
	FullText         string           `json:"full_text"`
	SourceFilename   string           `json:"source_filename,omitempty"`
	SourceID         string           `json:"source_id,omitempty"`
}

// EventSummary is the audit projection of an EventRecord.
type EventSummary struct {
	EventName  string       `json:"event_name"`
	Date       string       `json:"date,omitempty"`
	Prices     []string     `json:"prices"`
	GuestCount string       `json:"guest_count,omitempty"`
	MenuItems  MenuSections `json:"menu_items"`
}

func (r *EventRecord) Summary() EventSummary {
	prices := r.Prices
	if prices == nil {
		prices = []string{}
	}
	return EventSummary{
		EventName:  r.EventName,
		Date:       r.Date,
		Prices:     prices,
		GuestCount: r.GuestCount,
		MenuItems:  r.MenuItems,
	}
}

// Fields returns the record's extracted metadata keyed by field name.
// Absent optional fields are left out.
func (r *EventRecord) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"event_name": r.EventName,
		"prices":     r.Prices,
		"menu_items": r.MenuItems,
	}
	if r.Prices == nil {
		fields["prices"] = []string{}
	}

	optional := map[string]string{
		"date":        r.Date,
		"time":        r.Time,
		"guest_count": r.GuestCount,
		"location":    r.Location,
		"setup_notes": r.SetupNotes,
		"invoice_no":  r.InvoiceNo,
		"contact":     r.Contact,
		"email":       r.Email,
		"phone":       r.Phone,
	}
	for key, value := range optional {
		if value != "" {
			fields[key] = value
		}
	}

	return fields
}
