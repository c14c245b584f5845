package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vitos/marketpulse/internal/domain"
)

func TestCooldownTable_SuppressesWithinWindow(t *testing.T) {
	table := newCooldownTable(300 * time.Second)
	now := time.Unix(1_700_000_000, 0)
	table.now = func() time.Time { return now }

	assert.True(t, table.allow("BTCUSDT", domain.TriggerRSIHigh))
	assert.False(t, table.allow("BTCUSDT", domain.TriggerRSIHigh), "second fire within cooldown must be suppressed")

	now = now.Add(301 * time.Second)
	assert.True(t, table.allow("BTCUSDT", domain.TriggerRSIHigh), "fire after cooldown window elapses is allowed")
}

func TestCooldownTable_IndependentPerTriggerAndSymbol(t *testing.T) {
	table := newCooldownTable(300 * time.Second)

	assert.True(t, table.allow("BTCUSDT", domain.TriggerRSIHigh))
	assert.True(t, table.allow("BTCUSDT", domain.TriggerVolumeSpike), "different trigger kind is a different key")
	assert.True(t, table.allow("ETHUSDT", domain.TriggerRSIHigh), "different symbol is a different key")
}

func TestCooldownTable_DefaultsWhenWindowZero(t *testing.T) {
	table := newCooldownTable(0)
	assert.Equal(t, defaultCooldown, table.window)
}
