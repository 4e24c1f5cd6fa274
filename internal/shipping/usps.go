package shipping

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/shipdash/internal/inventory"
)

// USPSOrder is a prepaid USPS shipment and the postage account movement
// it causes.
type USPSOrder struct {
	ID                 string             `json:"id"`
	Invoice            string             `json:"invoice"`
	BoxDimension       string             `json:"boxDimension"`
	Weight             inventory.Quantity `json:"weight"`
	ShippingDay        string             `json:"shippingDay"`
	CaptureTime        string             `json:"captureTime"`
	AddedFund          inventory.Quantity `json:"addedFund"`
	Cost               inventory.Quantity `json:"cost"`
	ArizonaExpenditure inventory.Quantity `json:"arizonaExpenditure"`
	// Balance is addedFund - cost - arizonaExpenditure with three decimals.
	Balance string `json:"balance"`
}

// UnmarshalJSON accepts numeric ids.
func (o *USPSOrder) UnmarshalJSON(b []byte) error {
	type alias USPSOrder
	var aux struct {
		alias
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*o = USPSOrder(aux.alias)
	o.ID = looseString(aux.ID)
	return nil
}

// USPSInput is what the operator types for a new USPS order.
type USPSInput struct {
	Invoice            string
	BoxDimension       string
	Weight             float64
	AddedFund          float64
	Cost               float64
	ArizonaExpenditure float64
}

// Balance formats addedFund - cost - arizonaExpenditure to three decimals.
func Balance(addedFund, cost, arizonaExpenditure float64) string {
	return strconv.FormatFloat(addedFund-cost-arizonaExpenditure, 'f', 3, 64)
}

// NewUSPSOrder builds an order captured at now.
func NewUSPSOrder(in USPSInput, now time.Time) USPSOrder {
	return USPSOrder{
		ID:                 uuid.NewString(),
		Invoice:            in.Invoice,
		BoxDimension:       in.BoxDimension,
		Weight:             inventory.Quantity(in.Weight),
		ShippingDay:        now.Format(time.DateOnly),
		CaptureTime:        now.Format(time.TimeOnly),
		AddedFund:          inventory.Quantity(in.AddedFund),
		Cost:               inventory.Quantity(in.Cost),
		ArizonaExpenditure: inventory.Quantity(in.ArizonaExpenditure),
		Balance:            Balance(in.AddedFund, in.Cost, in.ArizonaExpenditure),
	}
}
