package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/config"
	"github.com/vitos/marketpulse/internal/domain"
	"github.com/vitos/marketpulse/internal/infrastructure/exchange"
	"github.com/vitos/marketpulse/internal/infrastructure/llm"
	"github.com/vitos/marketpulse/internal/infrastructure/logger"
	"github.com/vitos/marketpulse/internal/infrastructure/logstore"
	"github.com/vitos/marketpulse/internal/infrastructure/storage"
	"github.com/vitos/marketpulse/internal/infrastructure/tts"
	"github.com/vitos/marketpulse/internal/usecase"
	"github.com/vitos/marketpulse/internal/web"
)

func main() {
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	store, err := storage.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		log.Fatal("failed to init sqlite audit sink", zap.Error(err))
	}

	logStore, err := logstore.NewRedisLogStore(cfg.Redis.Host, cfg.Redis.Port, cfg.RedisPassword)
	if err != nil {
		log.Warn("failed to connect to redis log store, continuing without durable log", zap.Error(err))
	}

	llmClient := llm.NewClient(llm.Config{BaseURL: cfg.LLMBaseURL, APIKey: cfg.LLMAPIKey, Model: cfg.LLMModel})
	ttsClient := tts.NewClient(tts.Config{BaseURL: cfg.TTSBaseURL, APIKey: cfg.TTSAPIKey})

	pipeline := usecase.NewPipeline(log)
	hub := web.NewHub(log)

	analyzer := usecase.NewAnalyzerService(usecase.AnalyzerConfig{
		RsiPeriod:          cfg.Analyzer.RsiPeriod,
		RsiOverbought:      cfg.Analyzer.RsiOverbought,
		RsiOversold:        cfg.Analyzer.RsiOversold,
		VolumeWindowSize:   cfg.Analyzer.VolumeWindowSize,
		VolumeThreshold:    cfg.Analyzer.VolumeThreshold,
		WhaleWindowSeconds: cfg.Analyzer.WhaleWindowSeconds,
		WhaleThreshold:     cfg.Analyzer.WhaleThreshold,
		PsychLevels:        cfg.Analyzer.PsychLevels,
		CooldownWindow:     time.Duration(cfg.Analyzer.CooldownSeconds) * time.Second,
		LLMMaxTokens:       cfg.Analyzer.LLMMaxTokens,
		LLMTemperature:     cfg.Analyzer.LLMTemperature,
	}, pipeline, hub, logStoreOrNil(logStore), store, llmClient, ttsClient, log)

	ingestor := exchange.NewIngestor(cfg.Exchange.WSEndpoint, cfg.Exchange.Symbols, logStoreOrNil(logStore), pipeline.PushTrade, log)

	supervisor := usecase.NewSupervisor(log, ingestor, analyzer, pipeline, hub, logStoreOrNil(logStore), cfg.Redis.ConsumerGroup)

	server := web.NewServer(cfg.Server.Port, hub, ingestor, analyzer, pipeline, store, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	if err := supervisor.Start(context.Background()); err != nil {
		log.Fatal("failed to start supervisor", zap.Error(err))
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Error("web server failed", zap.Error(err))
		}
	}()

	<-stop
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := supervisor.Stop(shutdownCtx); err != nil {
		log.Error("supervisor shutdown error", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", zap.Error(err))
	}
	if err := store.Close(); err != nil {
		log.Error("failed to close audit sink", zap.Error(err))
	}
}

// logStoreOrNil returns a nil domain.LogStore interface when redis never
// connected. Passing the typed *RedisLogStore pointer directly would wrap
// a nil pointer in a non-nil interface, defeating every `!= nil` guard
// downstream.
func logStoreOrNil(ls *logstore.RedisLogStore) domain.LogStore {
	if ls == nil {
		return nil
	}
	return ls
}
