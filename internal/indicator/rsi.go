package indicator

import "math"

// RsiResult is returned once a symbol's close deque holds Period+1 bucket
// closes: Period completed 1-second buckets plus the current bucket's
// close-so-far.
type RsiResult struct {
	Symbol     string
	RSI        float64
	Overbought bool
	Oversold   bool
}

type rsiState struct {
	lastBucket int64
	closes     []float64 // bounded to Period+1
}

// RsiBySecond aggregates ticks into 1-second buckets keyed by
// floor(eventMs/1000) and computes a close-to-close RSI over the last
// Period completed buckets. Per-tick noise on a high-frequency feed would
// make a per-tick RSI meaningless; bucketing absorbs it.
//
// Not safe for concurrent use — callers must serialize per symbol (the
// analyzer owns one instance per symbol on a single goroutine).
type RsiBySecond struct {
	Period             int
	OverboughtThreshold float64
	OversoldThreshold   float64

	states map[string]*rsiState
}

// NewRsiBySecond builds a detector with the given period and thresholds.
// Pass 0 for the thresholds to get the default 70/30.
func NewRsiBySecond(period int, overbought, oversold float64) *RsiBySecond {
	if overbought == 0 {
		overbought = 70
	}
	if oversold == 0 {
		oversold = 30
	}
	return &RsiBySecond{
		Period:              period,
		OverboughtThreshold: overbought,
		OversoldThreshold:   oversold,
		states:              make(map[string]*rsiState),
	}
}

// Update feeds one tick. It returns a result only once the candle deque
// holds more than Period closes (the newest being the current bucket's).
func (r *RsiBySecond) Update(symbol string, price float64, eventMs int64) (RsiResult, bool) {
	bucket := eventMs / 1000

	st, ok := r.states[symbol]
	if !ok {
		r.states[symbol] = &rsiState{lastBucket: bucket, closes: []float64{price}}
		return RsiResult{}, false
	}

	switch {
	case bucket == st.lastBucket:
		st.closes[len(st.closes)-1] = price
	case bucket > st.lastBucket:
		st.closes = append(st.closes, price)
		st.lastBucket = bucket
		if len(st.closes) > r.Period+1 {
			st.closes = st.closes[len(st.closes)-(r.Period+1):]
		}
	default:
		// Out-of-order tick for an already-advanced bucket; ignore rather
		// than rewrite history.
		return RsiResult{}, false
	}

	if len(st.closes) <= r.Period {
		return RsiResult{}, false
	}

	deltas := st.closes[len(st.closes)-r.Period-1:]
	var gainSum, lossSum float64
	for i := 1; i < len(deltas); i++ {
		delta := deltas[i] - deltas[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += -delta
		}
	}
	avgGain := gainSum / float64(r.Period)
	avgLoss := lossSum / float64(r.Period)

	var rsi float64
	switch {
	case avgLoss == 0:
		if avgGain > 0 {
			rsi = 100
		} else {
			rsi = 50
		}
	case avgGain == 0:
		rsi = 0
	default:
		rs := avgGain / avgLoss
		rsi = 100 - 100/(1+rs)
	}
	rsi = math.Round(rsi*100) / 100

	return RsiResult{
		Symbol:     symbol,
		RSI:        rsi,
		Overbought: rsi > r.OverboughtThreshold,
		Oversold:   rsi < r.OversoldThreshold,
	}, true
}
