package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/domain"
	"github.com/vitos/marketpulse/internal/usecase"
)

type stubIngestorHealth struct{ messages int64 }

func (s stubIngestorHealth) Health() domain.IngestorHealth {
	return domain.IngestorHealth{Running: true, MessagesProcessed: s.messages}
}

type stubAuditReader struct {
	trades []domain.Trade
	alerts []domain.AlertEvent
}

func (s stubAuditReader) RecentTrades(ctx context.Context, symbol string, limit int) ([]domain.Trade, error) {
	return s.trades, nil
}

func (s stubAuditReader) RecentAlerts(ctx context.Context, symbol string, limit int) ([]domain.AlertEvent, error) {
	return s.alerts, nil
}

func newTestServer() *Server {
	logger := zap.NewNop()
	pipeline := usecase.NewPipeline(logger)
	analyzer := usecase.NewAnalyzerService(usecase.AnalyzerConfig{}, pipeline, nil, nil, nil, nil, nil, logger)
	hub := NewHub(logger)
	audit := stubAuditReader{alerts: []domain.AlertEvent{{Symbol: "BTCUSDT", TriggerType: domain.TriggerRSIHigh}}}
	return NewServer(0, hub, stubIngestorHealth{messages: 42}, analyzer, pipeline, audit, logger)
}

func TestServer_HealthEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status domain.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, int64(42), status.Ingestor.MessagesProcessed)
	assert.Equal(t, 0, status.Clients)
}

func TestServer_DebugAlertsEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/debug/alerts/BTCUSDT", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var alerts []domain.AlertEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.TriggerRSIHigh, alerts[0].TriggerType)
}
