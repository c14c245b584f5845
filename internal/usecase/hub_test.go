package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/domain"
	"github.com/vitos/marketpulse/internal/usecase"
)

func TestPipeline_DropsTradesOnFullChannel(t *testing.T) {
	pipeline := usecase.NewPipeline(zap.NewNop())

	for i := 0; i < 1000; i++ {
		pipeline.PushTrade(domain.Trade{Symbol: "BTCUSDT", EventMs: int64(i)})
	}
	assert.Equal(t, int64(0), pipeline.TradesDropped())

	// channel is now full; the next push must be dropped, not block
	pipeline.PushTrade(domain.Trade{Symbol: "BTCUSDT", EventMs: 1000})
	assert.Equal(t, int64(1), pipeline.TradesDropped())
}

func TestPipeline_DropsAlertsOnFullChannel(t *testing.T) {
	pipeline := usecase.NewPipeline(zap.NewNop())

	for i := 0; i < 10; i++ {
		pipeline.PushAlert(domain.AlertEvent{Symbol: "BTCUSDT", EventMs: int64(i)})
	}
	assert.Equal(t, int64(0), pipeline.AlertsDropped())

	pipeline.PushAlert(domain.AlertEvent{Symbol: "BTCUSDT", EventMs: 10})
	assert.Equal(t, int64(1), pipeline.AlertsDropped())
}

func TestPipeline_TradesChannelDeliversInOrder(t *testing.T) {
	pipeline := usecase.NewPipeline(zap.NewNop())

	pipeline.PushTrade(domain.Trade{Symbol: "A"})
	pipeline.PushTrade(domain.Trade{Symbol: "B"})

	first := <-pipeline.Trades()
	second := <-pipeline.Trades()

	assert.Equal(t, "A", first.Symbol)
	assert.Equal(t, "B", second.Symbol)
}
