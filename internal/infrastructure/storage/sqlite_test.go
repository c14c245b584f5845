package storage_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitos/marketpulse/internal/domain"
	"github.com/vitos/marketpulse/internal/infrastructure/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveAndRecentTrades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trade := domain.Trade{
		Symbol:  "BTCUSDT",
		Price:   decimal.NewFromFloat(65000.12),
		Volume:  decimal.NewFromFloat(0.5),
		EventMs: 1000,
	}
	require.NoError(t, store.SaveTrade(ctx, trade))

	trades, err := store.RecentTrades(ctx, "BTCUSDT", 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "BTCUSDT", trades[0].Symbol)
	assert.True(t, trade.Price.Equal(trades[0].Price))
	assert.Equal(t, int64(1000), trades[0].EventMs)
}

func TestSQLiteStore_RecentTradesFiltersBySymbol(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveTrade(ctx, domain.Trade{Symbol: "BTCUSDT", Price: decimal.NewFromInt(1), Volume: decimal.NewFromInt(1), EventMs: 1}))
	require.NoError(t, store.SaveTrade(ctx, domain.Trade{Symbol: "ETHUSDT", Price: decimal.NewFromInt(2), Volume: decimal.NewFromInt(1), EventMs: 2}))

	trades, err := store.RecentTrades(ctx, "ETHUSDT", 10)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "ETHUSDT", trades[0].Symbol)
}

func TestSQLiteStore_SaveAndRecentAlerts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alert := domain.AlertEvent{
		Symbol:       "BTCUSDT",
		Price:        65000,
		TriggerType:  domain.TriggerRSIHigh,
		TriggerValue: 82.5,
		Message:      "RSI overbought",
		EventMs:      5000,
	}
	require.NoError(t, store.SaveAlert(ctx, alert))

	alerts, err := store.RecentAlerts(ctx, "BTCUSDT", 10)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.TriggerRSIHigh, alerts[0].TriggerType)
	assert.Equal(t, 82.5, alerts[0].TriggerValue)
}

func TestSQLiteStore_RecentAlertsNoSymbolReturnsAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAlert(ctx, domain.AlertEvent{Symbol: "BTCUSDT", TriggerType: domain.TriggerWhaleAlert, EventMs: 1}))
	require.NoError(t, store.SaveAlert(ctx, domain.AlertEvent{Symbol: "ETHUSDT", TriggerType: domain.TriggerPsychLevel, EventMs: 2}))

	alerts, err := store.RecentAlerts(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, alerts, 2)
}

func TestSQLiteStore_CountAlerts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveAlert(ctx, domain.AlertEvent{Symbol: "BTCUSDT", TriggerType: domain.TriggerVolumeSpike, EventMs: 1}))
	require.NoError(t, store.SaveAlert(ctx, domain.AlertEvent{Symbol: "BTCUSDT", TriggerType: domain.TriggerVolumeSpike, EventMs: 2}))

	count, err := store.CountAlerts(ctx, "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
