package exchange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecodeTrade_ParsesDecimalStrings(t *testing.T) {
	trade, err := decodeTrade(wireMessage{Symbol: "BTCUSDT", Price: "50123.45", Qty: "0.015", TimeMs: 1700000000000})

	assert.NoError(t, err)
	assert.Equal(t, "BTCUSDT", trade.Symbol)
	assert.Equal(t, "50123.45", trade.Price.String())
	assert.Equal(t, "0.015", trade.Volume.String())
	assert.Equal(t, int64(1700000000000), trade.EventMs)
}

func TestDecodeTrade_RejectsMalformedPrice(t *testing.T) {
	_, err := decodeTrade(wireMessage{Symbol: "BTCUSDT", Price: "not-a-number", Qty: "1"})
	assert.Error(t, err)
}

func TestNextBackoff_DoublesUntilCap(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(1*time.Second))
	assert.Equal(t, 4*time.Second, nextBackoff(2*time.Second))
	assert.Equal(t, 60*time.Second, nextBackoff(32*time.Second))
	assert.Equal(t, 60*time.Second, nextBackoff(60*time.Second))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "streaming", StateStreaming.String())
	assert.Equal(t, "reconnecting", StateReconnecting.String())
}
