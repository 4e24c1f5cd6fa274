package inventory

import (
	"encoding/json"
	"errors"
	"strings"
)

// Observation is a canned remark attached to shipment lines. Stored values
// are either plain strings or objects. Objects carry the text under "text",
// "label" or "value" and an optional "id"; a decoded object is written back
// exactly as it was read.
type Observation struct {
	ID   string
	Text string

	raw json.RawMessage
}

func (o *Observation) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*o = Observation{Text: strings.TrimSpace(s)}
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil || fields == nil {
		return errors.New("observation must be a string or an object")
	}
	text := firstString(fields, "text", "label", "value")
	if text == "" {
		return errors.New("observation object has no text, label or value")
	}
	*o = Observation{
		ID:   firstString(fields, "id", "value"),
		Text: text,
		raw:  append(json.RawMessage(nil), b...),
	}
	return nil
}

func (o Observation) MarshalJSON() ([]byte, error) {
	if o.raw != nil {
		return o.raw, nil
	}
	if o.ID == "" {
		return json.Marshal(o.Text)
	}
	return json.Marshal(struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}{o.ID, o.Text})
}

func firstString(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(looseString(fields[k])); v != "" {
			return v
		}
	}
	return ""
}

// FindObservation returns the index of the first observation whose text
// equals text ignoring case, or -1.
func FindObservation(obs []Observation, text string) int {
	for i, o := range obs {
		if strings.EqualFold(o.Text, text) {
			return i
		}
	}
	return -1
}
