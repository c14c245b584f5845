package usecase

import "github.com/vitos/marketpulse/internal/domain"

// alertWireEvent is the subscriber-facing shape of an alert: camelCase
// trigger fields, distinct from domain.AlertEvent's snake_case tags, which
// serve the durable log and the audit sink instead.
type alertWireEvent struct {
	Symbol       string             `json:"symbol"`
	Price        float64            `json:"price"`
	TriggerType  domain.TriggerKind `json:"triggerType"`
	TriggerValue float64            `json:"triggerValue"`
	Message      string             `json:"message"`
	EventMs      int64              `json:"time"`
}

func newAlertWireEvent(a domain.AlertEvent) alertWireEvent {
	return alertWireEvent{
		Symbol:       a.Symbol,
		Price:        a.Price,
		TriggerType:  a.TriggerType,
		TriggerValue: a.TriggerValue,
		Message:      a.Message,
		EventMs:      a.EventMs,
	}
}
