package indicator

import "math"

// WhaleResult fires when the price has moved at least Threshold percent
// within the trailing WindowMs.
type WhaleResult struct {
	Symbol        string
	ChangePercent float64
	WindowSeconds int
	IsWhale       bool
}

type pricePoint struct {
	eventMs int64
	price   float64
}

// PriceChangeWindow ("whale" detector) tracks a rolling window of
// (eventMs, price) pairs per symbol and flags rapid moves relative to the
// oldest surviving price in the window.
//
// Not safe for concurrent use — single-writer per symbol.
type PriceChangeWindow struct {
	WindowMs  int64
	Threshold float64 // percent, e.g. 1.0 for 1%

	points map[string][]pricePoint
}

func NewPriceChangeWindow(windowSeconds int, thresholdPercent float64) *PriceChangeWindow {
	return &PriceChangeWindow{
		WindowMs:  int64(windowSeconds) * 1000,
		Threshold: thresholdPercent,
		points:    make(map[string][]pricePoint),
	}
}

func (p *PriceChangeWindow) Update(symbol string, price float64, eventMs int64) (WhaleResult, bool) {
	series := append(p.points[symbol], pricePoint{eventMs: eventMs, price: price})

	cutoff := eventMs - p.WindowMs
	start := 0
	for start < len(series) && series[start].eventMs < cutoff {
		start++
	}
	if start > 0 {
		series = series[start:]
	}
	p.points[symbol] = series

	oldest := series[0]
	if oldest.price == 0 {
		return WhaleResult{}, false
	}

	changePct := 100 * (price - oldest.price) / oldest.price
	if math.Abs(changePct) < p.Threshold {
		return WhaleResult{}, false
	}

	return WhaleResult{
		Symbol:        symbol,
		ChangePercent: math.Round(changePct*100) / 100,
		WindowSeconds: int(p.WindowMs / 1000),
		IsWhale:       true,
	}, true
}
