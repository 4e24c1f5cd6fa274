// Package shipping holds the shipment records captured by the dashboard:
// Fedex lines, USPS orders and the daily shipping report.
package shipping

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/atinyakov/shipdash/internal/inventory"
)

// Entry is one captured Fedex shipment line. LineNumber is 1-based and the
// lines of a capture always form a dense 1..N sequence.
type Entry struct {
	Order              string                  `json:"order"`
	LineNumber         int                     `json:"lineNumber"`
	FinishedGood       string                  `json:"finishedGood"`
	FinishedGoodObject *inventory.FinishedGood `json:"finishedGoodObject,omitempty"`
	Observation        string                  `json:"observation"`
	TrackingNumber     string                  `json:"trackingNumber"`
	ShippingDate       string                  `json:"shippingDate"`
	CaptureTime        string                  `json:"captureTime"`
}

// Append adds e as the next line and returns the new list.
func Append(entries []Entry, e Entry) []Entry {
	e.LineNumber = len(entries) + 1
	out := make([]Entry, 0, len(entries)+1)
	out = append(out, entries...)
	return append(out, e)
}

// Remove drops every line numbered n and renumbers the rest 1..N in order.
// The second result reports whether anything was removed.
func Remove(entries []Entry, n int) ([]Entry, bool) {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.LineNumber == n {
			continue
		}
		out = append(out, e)
	}
	removed := len(out) != len(entries)
	Renumber(out)
	return out, removed
}

// Renumber rewrites line numbers in place as 1..N.
func Renumber(entries []Entry) {
	for i := range entries {
		entries[i].LineNumber = i + 1
	}
}

var invoiceRe = regexp.MustCompile(`\d{6,}`)

// ExtractInvoice returns the first run of six or more digits in a scanned
// label, or "" when there is none.
func ExtractInvoice(scan string) string {
	return invoiceRe.FindString(scan)
}

// looseString decodes a JSON string or number as a string.
func looseString(b json.RawMessage) string {
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
