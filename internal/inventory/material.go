// Package inventory holds the reference data shared by the capture flows:
// materials with their stock, finished goods with their bill of materials,
// and observations. It also owns the stock deduction rule.
package inventory

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Quantity is a stock level or BOM quantity. Stored data is not always
// typed consistently, so it decodes from numbers and numeric strings alike;
// anything else decodes to 0.
type Quantity float64

func (q *Quantity) UnmarshalJSON(b []byte) error {
	*q = Quantity(parseNumber(b))
	return nil
}

func parseNumber(b []byte) float64 {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

// looseString decodes a JSON string or number as a string. Legacy records
// sometimes store material ids as numbers.
func looseString(b []byte) string {
	b = bytes.TrimSpace(b)
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		return n.String()
	}
	return ""
}

// Material is a stocked component.
type Material struct {
	MaterialID string `json:"materialId,omitempty"`
	// ID is a fallback identifier carried by some older records.
	ID    string   `json:"id,omitempty"`
	Name  string   `json:"name"`
	Stock Quantity `json:"stock"`
}

// Key returns the identifier used to match BOM lines: materialId when set,
// otherwise id.
func (m Material) Key() string {
	if m.MaterialID != "" {
		return m.MaterialID
	}
	return m.ID
}

// UnmarshalJSON tolerates numeric ids.
func (m *Material) UnmarshalJSON(b []byte) error {
	var raw struct {
		MaterialID json.RawMessage `json:"materialId"`
		ID         json.RawMessage `json:"id"`
		Name       json.RawMessage `json:"name"`
		Stock      Quantity        `json:"stock"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = Material{
		MaterialID: looseString(raw.MaterialID),
		ID:         looseString(raw.ID),
		Name:       looseString(raw.Name),
		Stock:      raw.Stock,
	}
	return nil
}

// FindMaterial returns the index of the first material whose key is id, or -1.
func FindMaterial(materials []Material, id string) int {
	if id == "" {
		return -1
	}
	for i, m := range materials {
		if m.Key() == id {
			return i
		}
	}
	return -1
}
