package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/domain"
	"github.com/vitos/marketpulse/internal/indicator"
)

// AnalyzerConfig tunes the four detectors and the cooldown window. Zero
// values fall back to sensible defaults inside the constructor.
type AnalyzerConfig struct {
	RsiPeriod          int
	RsiOverbought      float64
	RsiOversold        float64
	VolumeWindowSize   int
	VolumeThreshold    float64
	WhaleWindowSeconds int
	WhaleThreshold     float64
	PsychLevels        []float64
	CooldownWindow     time.Duration
	LLMMaxTokens       int
	LLMTemperature     float64
}

// AnalyzerService consumes trades, runs them through the indicator set,
// gates firings through the cooldown table, and dispatches alerts,
// LLM commentary and TTS synthesis. One instance serves every tracked
// symbol; the indicators are themselves symbol-keyed.
type AnalyzerService struct {
	logger *zap.Logger

	rsi    *indicator.RsiBySecond
	volume *indicator.VolumeSpikeBySecond
	whale  *indicator.PriceChangeWindow
	levels *indicator.LevelCross

	cooldown *cooldownTable

	pipeline     *Pipeline
	broadcaster  Broadcaster
	logStore     domain.LogStore
	audit        domain.AuditSink
	llm          domain.LLM
	tts          domain.TTS
	normalizer   *TextNormalizer
	llmMaxTokens int
	llmTemp      float64

	tradesProcessed atomic.Int64
	alertsTriggered atomic.Int64
	llmSkipped      atomic.Int64
}

func NewAnalyzerService(
	cfg AnalyzerConfig,
	pipeline *Pipeline,
	broadcaster Broadcaster,
	logStore domain.LogStore,
	audit domain.AuditSink,
	llm domain.LLM,
	tts domain.TTS,
	logger *zap.Logger,
) *AnalyzerService {
	if cfg.RsiPeriod == 0 {
		cfg.RsiPeriod = 60
	}
	if cfg.VolumeWindowSize == 0 {
		cfg.VolumeWindowSize = 30
	}
	if cfg.VolumeThreshold == 0 {
		cfg.VolumeThreshold = 5
	}
	if cfg.WhaleWindowSeconds == 0 {
		cfg.WhaleWindowSeconds = 60
	}
	if cfg.WhaleThreshold == 0 {
		cfg.WhaleThreshold = 1.0
	}
	if cfg.LLMMaxTokens == 0 {
		cfg.LLMMaxTokens = 100
	}
	if cfg.LLMTemperature == 0 {
		cfg.LLMTemperature = 0.7
	}

	return &AnalyzerService{
		logger:       logger,
		rsi:          indicator.NewRsiBySecond(cfg.RsiPeriod, cfg.RsiOverbought, cfg.RsiOversold),
		volume:       indicator.NewVolumeSpikeBySecond(cfg.VolumeWindowSize, cfg.VolumeThreshold),
		whale:        indicator.NewPriceChangeWindow(cfg.WhaleWindowSeconds, cfg.WhaleThreshold),
		levels:       indicator.NewLevelCross(cfg.PsychLevels),
		cooldown:     newCooldownTable(cfg.CooldownWindow),
		pipeline:     pipeline,
		broadcaster:  broadcaster,
		logStore:     logStore,
		audit:        audit,
		llm:          llm,
		tts:          tts,
		normalizer:   NewTextNormalizer(),
		llmMaxTokens: cfg.LLMMaxTokens,
		llmTemp:      cfg.LLMTemperature,
	}
}

// ProcessTrade runs one trade through every detector and dispatches any
// firings that clear their cooldown. It never blocks on the LLM/TTS
// collaborators past ctx's lifetime.
func (a *AnalyzerService) ProcessTrade(ctx context.Context, t domain.Trade) {
	a.tradesProcessed.Add(1)
	price := t.PriceFloat()
	volume := t.VolumeFloat()

	if a.audit != nil {
		go func() {
			if err := a.audit.SaveTrade(ctx, t); err != nil {
				a.logger.Warn("failed to audit trade", zap.Error(err))
			}
		}()
	}

	if result, ok := a.rsi.Update(t.Symbol, price, t.EventMs); ok {
		if result.Overbought {
			a.maybeFire(ctx, t.Symbol, domain.TriggerRSIHigh, result.RSI, price, t.EventMs,
				fmt.Sprintf("%s RSI at %.2f (overbought)", t.Symbol, result.RSI))
		} else if result.Oversold {
			a.maybeFire(ctx, t.Symbol, domain.TriggerRSILow, result.RSI, price, t.EventMs,
				fmt.Sprintf("%s RSI at %.2f (oversold)", t.Symbol, result.RSI))
		}
	}

	if result, ok := a.volume.Update(t.Symbol, volume, t.EventMs); ok && result.IsSpike {
		a.maybeFire(ctx, t.Symbol, domain.TriggerVolumeSpike, result.Multiplier, price, t.EventMs,
			fmt.Sprintf("%s volume spike: %.1fx average", t.Symbol, result.Multiplier))
	}

	if result, ok := a.whale.Update(t.Symbol, price, t.EventMs); ok && result.IsWhale {
		a.maybeFire(ctx, t.Symbol, domain.TriggerWhaleAlert, result.ChangePercent, price, t.EventMs,
			fmt.Sprintf("%s moved %.2f%% in %ds", t.Symbol, result.ChangePercent, result.WindowSeconds))
	}

	if result, ok := a.levels.Update(t.Symbol, price); ok {
		a.maybeFire(ctx, t.Symbol, domain.TriggerPsychLevel, result.Level, price, t.EventMs,
			fmt.Sprintf("%s crossed %s through %.0f", t.Symbol, result.Direction, result.Level))
	}
}

// maybeFire applies the cooldown gate, publishes the alert, and (audience
// permitting) dispatches LLM commentary and TTS synthesis.
func (a *AnalyzerService) maybeFire(ctx context.Context, symbol string, trigger domain.TriggerKind, value, price float64, eventMs int64, message string) {
	if !a.cooldown.allow(symbol, trigger) {
		return
	}

	alert := domain.AlertEvent{
		Symbol:       symbol,
		Price:        price,
		TriggerType:  trigger,
		TriggerValue: value,
		Message:      message,
		EventMs:      eventMs,
	}
	a.alertsTriggered.Add(1)

	if a.logStore != nil {
		if encoded, err := encodeJSON(alert); err == nil {
			if err := a.logStore.Produce(ctx, "alerts", symbol, encoded); err != nil {
				a.logger.Warn("failed to publish alert to log", zap.Error(err))
			}
		}
	}

	a.pipeline.PushAlert(alert)

	if a.audit != nil {
		if err := a.audit.SaveAlert(ctx, alert); err != nil {
			a.logger.Warn("failed to audit alert", zap.Error(err))
		}
	}

	if a.broadcaster == nil || a.broadcaster.SubscriberCount() == 0 {
		a.llmSkipped.Add(1)
		return
	}

	go a.dispatchAnalysis(ctx, alert)
}

// dispatchAnalysis calls the LLM and, if it returns text, synthesizes
// speech for it. Failures are logged and never propagated: a flaky LLM or
// TTS provider must not affect trade processing.
func (a *AnalyzerService) dispatchAnalysis(ctx context.Context, alert domain.AlertEvent) {
	if a.llm == nil {
		return
	}

	prompt := fmt.Sprintf(
		"Trigger: %s\nSymbol: %s\nPrice: %.4f\nValue: %.4f\n%s\nGive a one-sentence market commentary.",
		alert.TriggerType, alert.Symbol, alert.Price, alert.TriggerValue, alert.Message,
	)

	text, err := a.llm.Generate(ctx, prompt, a.llmTemp, a.llmMaxTokens)
	if err != nil {
		a.logger.Warn("LLM generation failed", zap.Error(err), zap.String("symbol", alert.Symbol))
		return
	}

	analysis := domain.AnalysisEvent{Symbol: alert.Symbol, Text: text, EventMs: alert.EventMs}
	if a.broadcaster != nil {
		if err := a.broadcaster.BroadcastJSON(domain.Envelope{Type: "analysis", Data: analysis}); err != nil {
			a.logger.Warn("failed to broadcast analysis", zap.Error(err))
		}
	}

	if text == "" || a.tts == nil {
		return
	}

	normalized := a.normalizer.Normalize(text)
	audio, err := a.tts.Synthesize(ctx, normalized, "default")
	if err != nil {
		a.logger.Warn("TTS synthesis failed", zap.Error(err), zap.String("symbol", alert.Symbol))
		return
	}
	if a.broadcaster != nil {
		if err := a.broadcaster.BroadcastBinary(audio); err != nil {
			a.logger.Warn("failed to broadcast audio", zap.Error(err))
		}
	}
}

func (a *AnalyzerService) Health() domain.AnalyzerHealth {
	return domain.AnalyzerHealth{
		Running:         true,
		TradesProcessed: a.tradesProcessed.Load(),
		AlertsTriggered: a.alertsTriggered.Load(),
	}
}

func (a *AnalyzerService) LLMSkipped() int64 { return a.llmSkipped.Load() }
