package indicator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitos/marketpulse/internal/indicator"
)

func TestRsiBySecond_UptrendOverbought(t *testing.T) {
	rsi := indicator.NewRsiBySecond(2, 0, 0)

	prices := []float64{100, 110, 120, 130, 140}
	var last indicator.RsiResult
	var ok bool
	for i, p := range prices {
		last, ok = rsi.Update("BTCUSDT", p, int64(i)*1000)
	}

	assert.True(t, ok)
	assert.InDelta(t, 100.0, last.RSI, 0.01)
	assert.True(t, last.Overbought)
	assert.False(t, last.Oversold)
}

func TestRsiBySecond_DowntrendOversold(t *testing.T) {
	rsi := indicator.NewRsiBySecond(2, 0, 0)

	prices := []float64{100, 90, 80, 70, 60}
	var last indicator.RsiResult
	for i, p := range prices {
		last, _ = rsi.Update("BTCUSDT", p, int64(i)*1000)
	}

	assert.Less(t, last.RSI, 10.0)
	assert.True(t, last.Oversold)
	assert.False(t, last.Overbought)
}

func TestRsiBySecond_NoResultBeforePeriodFills(t *testing.T) {
	rsi := indicator.NewRsiBySecond(5, 0, 0)

	_, ok := rsi.Update("ETHUSDT", 100, 0)
	assert.False(t, ok)

	_, ok = rsi.Update("ETHUSDT", 101, 1000)
	assert.False(t, ok)
}

func TestRsiBySecond_SameBucketOverwritesClose(t *testing.T) {
	rsi := indicator.NewRsiBySecond(2, 0, 0)

	rsi.Update("SOLUSDT", 100, 0)
	rsi.Update("SOLUSDT", 200, 400) // same second bucket, should overwrite
	rsi.Update("SOLUSDT", 110, 500) // still same bucket
	_, ok := rsi.Update("SOLUSDT", 120, 1000)

	assert.False(t, ok, "period of 2 needs 3 distinct buckets")
}

func TestRsiBySecond_FlatMarketIsNeutral(t *testing.T) {
	rsi := indicator.NewRsiBySecond(3, 0, 0)

	var last indicator.RsiResult
	var ok bool
	for i := 0; i < 5; i++ {
		last, ok = rsi.Update("XRPUSDT", 50, int64(i)*1000)
	}

	assert.True(t, ok)
	assert.Equal(t, 50.0, last.RSI)
}

func TestRsiBySecond_IndependentPerSymbol(t *testing.T) {
	rsi := indicator.NewRsiBySecond(2, 0, 0)

	for i, p := range []float64{100, 110, 120, 130} {
		rsi.Update("BTCUSDT", p, int64(i)*1000)
	}
	_, ok := rsi.Update("ETHUSDT", 100, 0)

	assert.False(t, ok, "a fresh symbol must not inherit another symbol's history")
}
