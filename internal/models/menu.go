package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type MenuSection struct {
	Header string
	Items  []string
}

// MenuSections keeps section headers in order of first appearance and
// serializes as a JSON object with that key order.
type MenuSections []MenuSection

func (m MenuSections) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, section := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(section.Header)
		if err != nil {
			return nil, err
		}
		items := section.Items
		if items == nil {
			items = []string{}
		}
		value, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *MenuSections) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*m = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("menu sections: expected object, got %v", tok)
	}

	sections := MenuSections{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		header, ok := tok.(string)
		if !ok {
			return fmt.Errorf("menu sections: expected string key, got %v", tok)
		}
		var items []string
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("menu sections: section %q: %w", header, err)
		}
		sections = append(sections, MenuSection{Header: header, Items: items})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*m = sections
	return nil
}
