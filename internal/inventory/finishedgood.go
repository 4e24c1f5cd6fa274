package inventory

import (
	"encoding/json"
	"strconv"
)

// MaxBOMLines is the number of material slots a finished good can carry.
const MaxBOMLines = 16

// Finished good body types.
const (
	TypeFront = "Front"
	TypeRear  = "Rear"
)

// Vehicle types.
const (
	VehiclePickup = "Pickup"
	VehicleSedan  = "Sedan"
	VehicleSUV    = "SUV"
)

// BOMLine is one material consumed by producing a finished good.
type BOMLine struct {
	MaterialID string   `json:"materialId"`
	Name       string   `json:"name,omitempty"`
	Quantity   Quantity `json:"quantity"`
}

// Usable reports whether the line takes part in deduction.
func (l BOMLine) Usable() bool {
	return l.MaterialID != "" && l.Quantity > 0
}

// UnmarshalJSON tolerates numeric material ids.
func (l *BOMLine) UnmarshalJSON(b []byte) error {
	var raw struct {
		MaterialID json.RawMessage `json:"materialId"`
		Name       json.RawMessage `json:"name"`
		Quantity   Quantity        `json:"quantity"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*l = BOMLine{
		MaterialID: looseString(raw.MaterialID),
		Name:       looseString(raw.Name),
		Quantity:   raw.Quantity,
	}
	return nil
}

// FinishedGood is a sellable product and its bill of materials.
//
// Stored records come in two shapes: a "bom" array, or sixteen indexed
// fields matId1..matId16 / cantidad1..cantidad16. Decoding resolves both
// into BOM; a non-empty array wins over the slots. Encoding always writes
// the array form.
type FinishedGood struct {
	FinishedGood string    `json:"finishedGood"`
	Type         string    `json:"type,omitempty"`
	VehicleType  string    `json:"vehicleType,omitempty"`
	BOM          []BOMLine `json:"bom"`
}

func (fg *FinishedGood) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*fg = FinishedGood{
		FinishedGood: looseString(fields["finishedGood"]),
		Type:         looseString(fields["type"]),
		VehicleType:  looseString(fields["vehicleType"]),
	}
	if fg.FinishedGood == "" {
		fg.FinishedGood = looseString(fields["name"])
	}

	var lines []BOMLine
	if raw, ok := fields["bom"]; ok {
		// a malformed bom is treated like a missing one
		_ = json.Unmarshal(raw, &lines)
	}
	if len(lines) > 0 {
		fg.BOM = lines
		return nil
	}
	fg.BOM = slotLines(fields)
	return nil
}

// slotLines reads the legacy matIdN / cantidadN fields, skipping empty slots.
func slotLines(fields map[string]json.RawMessage) []BOMLine {
	var lines []BOMLine
	for i := 1; i <= MaxBOMLines; i++ {
		n := strconv.Itoa(i)
		id := looseString(fields["matId"+n])
		if id == "" {
			continue
		}
		lines = append(lines, BOMLine{
			MaterialID: id,
			Quantity:   Quantity(parseNumber(fields["cantidad"+n])),
		})
	}
	return lines
}

// UsableLines returns the BOM lines with an id and a positive quantity.
func (fg FinishedGood) UsableLines() []BOMLine {
	var out []BOMLine
	for _, l := range fg.BOM {
		if l.Usable() {
			out = append(out, l)
		}
	}
	return out
}

// FindFinishedGood returns the index of the finished good named name, or -1.
func FindFinishedGood(goods []FinishedGood, name string) int {
	for i, fg := range goods {
		if fg.FinishedGood == name {
			return i
		}
	}
	return -1
}

// ValidType reports whether t is a known body type.
func ValidType(t string) bool {
	return t == TypeFront || t == TypeRear
}

// ValidVehicleType reports whether v is a known vehicle type.
func ValidVehicleType(v string) bool {
	return v == VehiclePickup || v == VehicleSedan || v == VehicleSUV
}
