package domain

import "context"

// LLM is the text-generation collaborator. Implementations must respect
// ctx cancellation; the analyzer never waits past shutdown.
type LLM interface {
	Generate(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
}

// TTS is the speech-synthesis collaborator.
type TTS interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// LogMessage is a single record returned by Consumer.Poll.
type LogMessage struct {
	Key   string
	Value []byte
}

// Consumer polls a durable log topic. Poll returns (nil, nil) on an empty
// poll within timeout — not an error — matching the at-least-once,
// best-effort delivery of the log transport.
type Consumer interface {
	Poll(ctx context.Context) (*LogMessage, error)
	Close() error
}

// LogStore is the durable trade/alert log transport. Its concrete wire
// protocol is an implementation detail; only this contract is fixed.
type LogStore interface {
	Produce(ctx context.Context, topic, key string, value []byte) error
	Subscribe(ctx context.Context, topic, group string) (Consumer, error)
}

// AuditSink is a best-effort local mirror of trades and alerts, queried
// by the debug endpoints. The analyzer saves trades from a separate
// goroutine and saves alerts synchronously as they fire; sink errors are
// logged and never stop trade processing.
type AuditSink interface {
	SaveTrade(ctx context.Context, trade Trade) error
	SaveAlert(ctx context.Context, alert AlertEvent) error
	RecentTrades(ctx context.Context, symbol string, limit int) ([]Trade, error)
	RecentAlerts(ctx context.Context, symbol string, limit int) ([]AlertEvent, error)
}
