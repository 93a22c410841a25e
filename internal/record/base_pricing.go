package record

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/NEMYSESx/menu-ingest/internal/models"
)

//go:embed base_pricing.yaml
var defaultBasePricing []byte

type Tier struct {
	Name              string
	PricePerPerson    *decimal.Decimal
	MinPricePerPerson *decimal.Decimal
	MaxPricePerPerson *decimal.Decimal
	Description       string
}

// BasePricing is the static per-person reference menu, in file order.
type BasePricing []Tier

type basePricingFile struct {
	Tiers []struct {
		Name              string `yaml:"name"`
		PricePerPerson    string `yaml:"price_per_person"`
		MinPricePerPerson string `yaml:"min_price_per_person"`
		MaxPricePerPerson string `yaml:"max_price_per_person"`
		Description       string `yaml:"description"`
	} `yaml:"tiers"`
}

func DefaultBasePricing() BasePricing {
	pricing, err := ParseBasePricing(defaultBasePricing)
	if err != nil {
		panic(fmt.Sprintf("embedded base pricing is invalid: %v", err))
	}
	return pricing
}

// LoadBasePricing reads a tier file, or the embedded defaults when path is empty.
func LoadBasePricing(path string) (BasePricing, error) {
	if path == "" {
		return DefaultBasePricing(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read base pricing file: %w", err)
	}
	return ParseBasePricing(data)
}

func ParseBasePricing(data []byte) (BasePricing, error) {
	var file basePricingFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode base pricing: %w", err)
	}
	if len(file.Tiers) == 0 {
		return nil, fmt.Errorf("base pricing has no tiers")
	}

	pricing := make(BasePricing, 0, len(file.Tiers))
	for _, t := range file.Tiers {
		if t.Name == "" {
			return nil, fmt.Errorf("base pricing tier without name")
		}
		tier := Tier{Name: t.Name, Description: t.Description}
		var err error
		if tier.PricePerPerson, err = optionalDecimal(t.PricePerPerson); err != nil {
			return nil, fmt.Errorf("tier %s: price_per_person: %w", t.Name, err)
		}
		if tier.MinPricePerPerson, err = optionalDecimal(t.MinPricePerPerson); err != nil {
			return nil, fmt.Errorf("tier %s: min_price_per_person: %w", t.Name, err)
		}
		if tier.MaxPricePerPerson, err = optionalDecimal(t.MaxPricePerPerson); err != nil {
			return nil, fmt.Errorf("tier %s: max_price_per_person: %w", t.Name, err)
		}
		pricing = append(pricing, tier)
	}
	return pricing, nil
}

func optionalDecimal(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (t Tier) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, value interface{}) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	prices := []struct {
		key   string
		value *decimal.Decimal
	}{
		{"price_per_person", t.PricePerPerson},
		{"min_price_per_person", t.MinPricePerPerson},
		{"max_price_per_person", t.MaxPricePerPerson},
	}
	for _, p := range prices {
		if p.value == nil {
			continue
		}
		if err := write(p.key, json.Number(p.value.StringFixed(2))); err != nil {
			return nil, err
		}
	}
	if err := write("description", t.Description); err != nil {
		return nil, err
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p BasePricing) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, tier := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(tier.Name)
		v, err := json.Marshal(tier)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Document renders the reference record appended after every batch.
func (p BasePricing) Document() (models.IndexDocument, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return models.IndexDocument{}, fmt.Errorf("failed to encode base pricing: %w", err)
	}
	return models.IndexDocument{
		Content:      "Base Menu Pricing:\n" + string(data),
		Metadata:     map[string]interface{}{"document_type": string(models.DocumentTypeBasePricing)},
		DocumentType: models.DocumentTypeBasePricing,
	}, nil
}
