package domain

import "time"

// TriggerKind identifies which detector fired an AlertEvent.
type TriggerKind string

const (
	TriggerRSIHigh      TriggerKind = "RSI_HIGH"
	TriggerRSILow       TriggerKind = "RSI_LOW"
	TriggerVolumeSpike  TriggerKind = "VOLUME_SPIKE"
	TriggerWhaleAlert   TriggerKind = "WHALE_ALERT"
	TriggerPsychLevel   TriggerKind = "PSYCH_LEVEL"
)

// AlertEvent is emitted by the analyzer once a detector output clears its
// cooldown. It is immutable after construction.
type AlertEvent struct {
	Symbol       string      `json:"symbol"`
	Price        float64     `json:"price"`
	TriggerType  TriggerKind `json:"trigger_type"`
	TriggerValue float64     `json:"trigger_value"`
	Message      string      `json:"message"`
	EventMs      int64       `json:"time"`
}

// AnalysisEvent carries the LLM's generated commentary for an AlertEvent.
type AnalysisEvent struct {
	Symbol  string `json:"symbol"`
	Text    string `json:"text"`
	EventMs int64  `json:"time"`
}

// Envelope is the fixed wire shape every subscriber message is sent in:
// {"type": "trade"|"alert"|"analysis", "data": {...}}. Type identifies how
// Data should be decoded on the client side.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// HealthStatus is the shape returned by the health endpoint.
type HealthStatus struct {
	Status   string         `json:"status"`
	Ingestor IngestorHealth `json:"ingestor"`
	Analyzer AnalyzerHealth `json:"analyzer"`
	Clients  int            `json:"websocket_clients"`
}

type IngestorHealth struct {
	Running            bool  `json:"running"`
	MessagesProcessed   int64 `json:"messages_processed"`
}

type AnalyzerHealth struct {
	Running         bool  `json:"running"`
	TradesProcessed int64 `json:"trades_processed"`
	AlertsTriggered int64 `json:"alerts_triggered"`
}

// Clock abstracts time.Now for deterministic tests.
type Clock func() time.Time
