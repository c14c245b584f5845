package usecase

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/domain"
)

const (
	tradeChannelCapacity  = 1000
	alertChannelCapacity  = 10
)

// Broadcaster fans events out to attached subscribers. internal/web's Hub
// implements this; the analyzer and pipeline only depend on the interface
// so they never need to know about the transport.
type Broadcaster interface {
	BroadcastJSON(v any) error
	BroadcastBinary(data []byte) error
	SubscriberCount() int
}

// Pipeline owns the bounded trade/alert channels that connect the ingestor
// to the analyzer, and the analyzer to the subscriber broadcaster. Both
// channels drop the newest item on overflow rather than block the
// producer; dropped counts are exposed for health/metrics.
type Pipeline struct {
	logger *zap.Logger

	trades chan domain.Trade
	alerts chan domain.AlertEvent

	tradesDropped atomic.Int64
	alertsDropped atomic.Int64
}

func NewPipeline(logger *zap.Logger) *Pipeline {
	return &Pipeline{
		logger: logger,
		trades: make(chan domain.Trade, tradeChannelCapacity),
		alerts: make(chan domain.AlertEvent, alertChannelCapacity),
	}
}

// PushTrade attempts a non-blocking send; on a full channel the trade is
// dropped and the counter incremented.
func (p *Pipeline) PushTrade(t domain.Trade) {
	select {
	case p.trades <- t:
	default:
		p.tradesDropped.Add(1)
		p.logger.Warn("trade channel full, dropping", zap.String("symbol", t.Symbol))
	}
}

// PushAlert attempts a non-blocking send; on a full channel the alert is
// dropped and the counter incremented.
func (p *Pipeline) PushAlert(a domain.AlertEvent) {
	select {
	case p.alerts <- a:
	default:
		p.alertsDropped.Add(1)
		p.logger.Warn("alert channel full, dropping", zap.String("symbol", a.Symbol))
	}
}

func (p *Pipeline) Trades() <-chan domain.Trade { return p.trades }
func (p *Pipeline) Alerts() <-chan domain.AlertEvent { return p.alerts }

func (p *Pipeline) TradesDropped() int64 { return p.tradesDropped.Load() }
func (p *Pipeline) AlertsDropped() int64 { return p.alertsDropped.Load() }
