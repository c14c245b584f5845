package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/domain"
	"github.com/vitos/marketpulse/internal/usecase"
)

// ingestorHealth is the slice of exchange.Ingestor the web layer needs,
// kept narrow so this package doesn't import internal/infrastructure/exchange.
type ingestorHealth interface {
	Health() domain.IngestorHealth
}

// auditReader is the slice of domain.AuditSink the debug endpoints use.
type auditReader interface {
	RecentTrades(ctx context.Context, symbol string, limit int) ([]domain.Trade, error)
	RecentAlerts(ctx context.Context, symbol string, limit int) ([]domain.AlertEvent, error)
}

// Server is the HTTP/WS surface: subscriber upgrade, health, metrics,
// and best-effort debug endpoints over the audit sink.
type Server struct {
	router   *mux.Router
	server   *http.Server
	hub      *Hub
	upgrader websocket.Upgrader
	ingestor ingestorHealth
	analyzer *usecase.AnalyzerService
	pipeline *usecase.Pipeline
	audit    auditReader
	logger   *zap.Logger
}

func NewServer(
	port int,
	hub *Hub,
	ingestor ingestorHealth,
	analyzer *usecase.AnalyzerService,
	pipeline *usecase.Pipeline,
	audit auditReader,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		hub:      hub,
		ingestor: ingestor,
		analyzer: analyzer,
		pipeline: pipeline,
		audit:    audit,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	registry := prometheus.NewRegistry()
	registerMetrics(registry, s)

	s.routes(registry)
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes(registry *prometheus.Registry) {
	s.router.HandleFunc("/ws/{symbol}", s.handleSubscribe).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/debug/trades/{symbol}", s.handleDebugTrades).Methods(http.MethodGet)
	s.router.HandleFunc("/debug/alerts/{symbol}", s.handleDebugAlerts).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

func (s *Server) Start() error {
	s.logger.Info("starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
