package web

import (
	"github.com/prometheus/client_golang/prometheus"
)

// registerMetrics wires Prometheus CounterFuncs/GaugeFuncs directly onto
// the atomic counters the pipeline and analyzer already maintain, so
// /metrics always reflects live state with no separate bookkeeping.
func registerMetrics(registry *prometheus.Registry, s *Server) {
	registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "marketpulse_trades_processed_total",
			Help: "Total trade ticks processed by the analyzer.",
		}, func() float64 { return float64(s.analyzer.Health().TradesProcessed) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "marketpulse_alerts_triggered_total",
			Help: "Total alerts that cleared their cooldown.",
		}, func() float64 { return float64(s.analyzer.Health().AlertsTriggered) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "marketpulse_analyzer_llm_skipped_total",
			Help: "Alerts for which LLM dispatch was skipped due to the audience gate.",
		}, func() float64 { return float64(s.analyzer.LLMSkipped()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "marketpulse_pipeline_trades_dropped_total",
			Help: "Trades dropped because the pipeline's trade channel was full.",
		}, func() float64 { return float64(s.pipeline.TradesDropped()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "marketpulse_pipeline_alerts_dropped_total",
			Help: "Alerts dropped because the pipeline's alert channel was full.",
		}, func() float64 { return float64(s.pipeline.AlertsDropped()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "marketpulse_ingestor_messages_processed_total",
			Help: "Total trades parsed from the exchange websocket feed.",
		}, func() float64 { return float64(s.ingestor.Health().MessagesProcessed) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "marketpulse_websocket_subscribers",
			Help: "Current number of attached websocket subscribers.",
		}, func() float64 { return float64(s.hub.SubscriberCount()) }),
	)
}
