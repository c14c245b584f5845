package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/domain"
)

const (
	shutdownGrace = 5 * time.Second
	tradesTopic   = "trades"
)

var errNoDurableLog = errors.New("no durable trade log configured")

// Runner is the lifecycle contract of a stage the Supervisor starts and
// stops; the ingestor is the stage handed over as a Runner. Stop must
// return once the stage has released its transport resource, or once ctx
// expires.
type Runner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Supervisor owns the shared cancellation context for one pipeline
// instance: ingestor -> log -> analyzer -> broadcaster. It does not know
// the concrete transport types, only that each stage satisfies Runner or
// the narrower contracts (Broadcaster, domain.LogStore) it was handed.
//
// Trades reach the analyzer through the durable log when one is
// configured (logStore.Subscribe against consumerGroup), matching the
// at-least-once design the log transport exists for. When no durable log
// is available, the supervisor falls back to analyzing straight off the
// in-process Pipeline feed so a Redis outage degrades rather than halts
// analysis. Either way, every raw trade and every fired alert is also
// broadcast to subscribers off the Pipeline channels.
type Supervisor struct {
	logger        *zap.Logger
	ingestor      Runner
	analyzer      *AnalyzerService
	pipeline      *Pipeline
	broadcaster   Broadcaster
	logStore      domain.LogStore
	consumerGroup string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSupervisor(logger *zap.Logger, ingestor Runner, analyzer *AnalyzerService, pipeline *Pipeline, broadcaster Broadcaster, logStore domain.LogStore, consumerGroup string) *Supervisor {
	return &Supervisor{
		logger:        logger,
		ingestor:      ingestor,
		analyzer:      analyzer,
		pipeline:      pipeline,
		broadcaster:   broadcaster,
		logStore:      logStore,
		consumerGroup: consumerGroup,
	}
}

// Start launches the ingestor, the trade/alert broadcast loops, and the
// analysis loop (durable-log-backed when possible, direct-feed otherwise)
// under a shared cancellable context, and returns once all have been
// dispatched.
func (s *Supervisor) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if err := s.ingestor.Start(runCtx); err != nil {
		cancel()
		return err
	}

	consumer, err := s.subscribeTrades(runCtx)
	directAnalysis := err != nil
	if directAnalysis {
		s.logger.Warn("durable trade log unavailable, analyzing off the in-process feed instead", zap.Error(err))
	}

	s.wg.Add(1)
	go s.tradeLoop(runCtx, directAnalysis)

	s.wg.Add(1)
	go s.alertBroadcastLoop(runCtx)

	if !directAnalysis {
		s.wg.Add(1)
		go s.logAnalysisLoop(runCtx, consumer)
	}

	return nil
}

func (s *Supervisor) subscribeTrades(ctx context.Context) (domain.Consumer, error) {
	if s.logStore == nil {
		return nil, errNoDurableLog
	}
	consumer, err := s.logStore.Subscribe(ctx, tradesTopic, s.consumerGroup)
	if err != nil {
		return nil, err
	}
	if consumer == nil {
		return nil, errNoDurableLog
	}
	return consumer, nil
}

// tradeLoop drains the ingestor's in-process trade feed and broadcasts a
// {"type":"trade",...} envelope for each one. When no durable log backs
// the analysis loop, it also feeds the analyzer directly.
func (s *Supervisor) tradeLoop(ctx context.Context, directAnalysis bool) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case trade, ok := <-s.pipeline.Trades():
			if !ok {
				return
			}
			if directAnalysis {
				s.analyzer.ProcessTrade(ctx, trade)
			}
			if s.broadcaster == nil {
				continue
			}
			if err := s.broadcaster.BroadcastJSON(domain.Envelope{Type: "trade", Data: trade}); err != nil {
				s.logger.Warn("failed to broadcast trade", zap.Error(err))
			}
		}
	}
}

// alertBroadcastLoop drains fired alerts and broadcasts a
// {"type":"alert",...} envelope for each one.
func (s *Supervisor) alertBroadcastLoop(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case alert, ok := <-s.pipeline.Alerts():
			if !ok {
				return
			}
			if s.broadcaster == nil {
				continue
			}
			if err := s.broadcaster.BroadcastJSON(domain.Envelope{Type: "alert", Data: newAlertWireEvent(alert)}); err != nil {
				s.logger.Warn("failed to broadcast alert", zap.Error(err))
			}
		}
	}
}

// logAnalysisLoop polls the durable trade log and feeds each decoded trade
// to the analyzer. This is the trade path the log transport exists for:
// the analyzer consumes from the log, not straight off the ingestor.
func (s *Supervisor) logAnalysisLoop(ctx context.Context, consumer domain.Consumer) {
	defer s.wg.Done()
	defer consumer.Close()

	for {
		if ctx.Err() != nil {
			return
		}

		msg, err := consumer.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("trade log poll failed", zap.Error(err))
			continue
		}
		if msg == nil {
			continue
		}

		var trade domain.Trade
		if err := json.Unmarshal(msg.Value, &trade); err != nil {
			s.logger.Warn("malformed trade in durable log", zap.Error(err))
			continue
		}

		s.analyzer.ProcessTrade(ctx, trade)
	}
}

// Stop cancels the shared context, abandoning any in-flight LLM/TTS calls,
// then waits up to shutdownGrace for the ingestor and the pipeline loops to
// acknowledge. Errors from each stage are aggregated, not short-circuited,
// so one slow stage never hides another stage's failure.
func (s *Supervisor) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	stopCtx, stopCancel := context.WithTimeout(ctx, shutdownGrace)
	defer stopCancel()

	var errs error
	if err := s.ingestor.Stop(stopCtx); err != nil {
		errs = multierr.Append(errs, err)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-stopCtx.Done():
		s.logger.Warn("pipeline loops did not stop within grace period")
		errs = multierr.Append(errs, errors.New("pipeline loops did not stop within grace period"))
	}

	return errs
}
