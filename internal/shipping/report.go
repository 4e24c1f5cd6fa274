package shipping

import (
	"encoding/json"

	"github.com/atinyakov/shipdash/internal/inventory"
)

// ReportRecord is one row of the dailyReport collection.
type ReportRecord struct {
	ID             string             `json:"id"`
	LineCount      inventory.Quantity `json:"lineCount"`
	ScanInvoice    string             `json:"scanInvoice"`
	Invoice        string             `json:"invoice"`
	FinishedGood   string             `json:"finishedGood"`
	Observation    string             `json:"observation"`
	TrackingNumber string             `json:"trackingNumber"`
	Comments       string             `json:"comments"`
	ShippingDate   string             `json:"shippingDate"`
}

// UnmarshalJSON accepts numeric ids and invoices.
func (r *ReportRecord) UnmarshalJSON(b []byte) error {
	type alias ReportRecord
	var aux struct {
		alias
		ID      json.RawMessage `json:"id"`
		Invoice json.RawMessage `json:"invoice"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = ReportRecord(aux.alias)
	r.ID = looseString(aux.ID)
	r.Invoice = looseString(aux.Invoice)
	return nil
}

// DailyReport summarizes the records shipped on one date.
type DailyReport struct {
	Date    string
	Lines   int
	Boxes   int
	Records []ReportRecord
}

// Daily filters records by shippingDate. Lines counts the matching records
// and Boxes counts their distinct invoices.
func Daily(records []ReportRecord, date string) DailyReport {
	rep := DailyReport{Date: date}
	invoices := make(map[string]struct{})
	for _, r := range records {
		if r.ShippingDate != date {
			continue
		}
		rep.Records = append(rep.Records, r)
		invoices[r.Invoice] = struct{}{}
	}
	rep.Lines = len(rep.Records)
	rep.Boxes = len(invoices)
	return rep
}
