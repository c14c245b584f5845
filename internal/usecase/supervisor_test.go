package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/domain"
	"github.com/vitos/marketpulse/internal/usecase"
)

type fakeRunner struct {
	started bool
	stopped bool
}

func (f *fakeRunner) Start(ctx context.Context) error {
	f.started = true
	return nil
}

func (f *fakeRunner) Stop(ctx context.Context) error {
	f.stopped = true
	return nil
}

func TestSupervisor_StartConsumesTradesUntilStop(t *testing.T) {
	logger := zap.NewNop()
	pipeline := usecase.NewPipeline(logger)
	broadcaster := &stubBroadcaster{subscribers: 0}
	analyzer := usecase.NewAnalyzerService(
		usecase.AnalyzerConfig{RsiPeriod: 2},
		pipeline, broadcaster, &stubLogStore{}, nil, newStubLLM(""), &stubTTS{}, logger,
	)
	runner := &fakeRunner{}

	sup := usecase.NewSupervisor(logger, runner, analyzer, pipeline, broadcaster, nil, "test-group")

	require := assert.New(t)
	require.NoError(sup.Start(context.Background()))
	assert.True(t, runner.started)

	pipeline.PushTrade(domain.Trade{Symbol: "BTCUSDT", Price: decimalFromFloat(100), EventMs: 0})

	time.Sleep(50 * time.Millisecond)
	assert.Eventually(t, func() bool { return analyzer.Health().TradesProcessed == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(sup.Stop(context.Background()))
	assert.True(t, runner.stopped)
}
