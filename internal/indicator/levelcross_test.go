package indicator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitos/marketpulse/internal/indicator"
)

func TestLevelCross_UpCross(t *testing.T) {
	l := indicator.NewLevelCross([]float64{100, 200, 300})

	_, ok := l.Update("BTCUSDT", 95)
	assert.False(t, ok, "first tick only seeds lastPrice")

	result, ok := l.Update("BTCUSDT", 105)
	assert.True(t, ok)
	assert.Equal(t, 100.0, result.Level)
	assert.Equal(t, "UP", result.Direction)
}

func TestLevelCross_DownCross(t *testing.T) {
	l := indicator.NewLevelCross([]float64{100, 200, 300})

	l.Update("ETHUSDT", 305)
	result, ok := l.Update("ETHUSDT", 295)

	assert.True(t, ok)
	assert.Equal(t, 300.0, result.Level)
	assert.Equal(t, "DOWN", result.Direction)
}

func TestLevelCross_NoCrossWithinBand(t *testing.T) {
	l := indicator.NewLevelCross([]float64{100, 200, 300})

	l.Update("SOLUSDT", 150)
	_, ok := l.Update("SOLUSDT", 160)

	assert.False(t, ok)
}

func TestLevelCross_FirstMatchingLevelWinsOnMultiSpan(t *testing.T) {
	l := indicator.NewLevelCross([]float64{100, 200, 300})

	l.Update("XRPUSDT", 50)
	result, ok := l.Update("XRPUSDT", 350) // spans all three levels in one tick

	assert.True(t, ok)
	assert.Equal(t, 100.0, result.Level, "sorted iteration short-circuits on the first level crossed")
	assert.Equal(t, "UP", result.Direction)
}

func TestLevelCross_UnsortedInputIsSorted(t *testing.T) {
	l := indicator.NewLevelCross([]float64{300, 100, 200})

	l.Update("ADAUSDT", 50)
	result, _ := l.Update("ADAUSDT", 350)

	assert.Equal(t, 100.0, result.Level)
}
