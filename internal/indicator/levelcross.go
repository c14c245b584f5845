package indicator

import "sort"

// LevelResult fires when price crosses one of the fixed psychological
// levels since the previous tick for that symbol.
type LevelResult struct {
	Symbol    string
	Level     float64
	Direction string // "UP" or "DOWN"
}

// LevelCross tracks the last seen price per symbol against a shared, sorted
// set of levels and, scanning levels in ascending order, reports the lowest
// level crossed on each tick. At most one result is emitted per tick even
// if multiple levels were spanned.
//
// Not safe for concurrent use — single-writer per symbol.
type LevelCross struct {
	levels    []float64
	lastPrice map[string]float64
}

// NewLevelCross builds a detector over the given levels, which need not be
// pre-sorted.
func NewLevelCross(levels []float64) *LevelCross {
	sorted := make([]float64, len(levels))
	copy(sorted, levels)
	sort.Float64s(sorted)
	return &LevelCross{
		levels:    sorted,
		lastPrice: make(map[string]float64),
	}
}

func (l *LevelCross) Update(symbol string, price float64) (LevelResult, bool) {
	last, ok := l.lastPrice[symbol]
	l.lastPrice[symbol] = price
	if !ok {
		return LevelResult{}, false
	}

	for _, level := range l.levels {
		if last < level && level <= price {
			return LevelResult{Symbol: symbol, Level: level, Direction: "UP"}, true
		}
		if last > level && level >= price {
			return LevelResult{Symbol: symbol, Level: level, Direction: "DOWN"}, true
		}
	}
	return LevelResult{}, false
}
