package domain

import (
	"github.com/shopspring/decimal"
)

// Trade is the canonical, immutable trade tick produced by the ingestor.
// Price and Volume are kept as decimal.Decimal so the feed's decimal-string
// wire format survives parsing without rounding; indicator math converts to
// float64 at the point of use.
type Trade struct {
	Symbol  string          `json:"symbol"`
	Price   decimal.Decimal `json:"price"`
	Volume  decimal.Decimal `json:"volume"`
	EventMs int64           `json:"time"`
}

// PriceFloat returns Price as float64 for indicator math.
func (t Trade) PriceFloat() float64 {
	f, _ := t.Price.Float64()
	return f
}

// VolumeFloat returns Volume as float64 for indicator math.
func (t Trade) VolumeFloat() float64 {
	f, _ := t.Volume.Float64()
	return f
}
