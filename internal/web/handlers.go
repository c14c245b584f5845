package web

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/domain"
)

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := s.hub.Register(conn, symbol)
	s.logger.Info("subscriber attached", zap.String("subscriber_id", sub.id), zap.String("symbol", symbol))

	// The subscriber is write-only from the server's side; drain and
	// discard any client frames until the connection closes, so pings still
	// get answered and a closed connection is unregistered.
	go func() {
		defer s.hub.Unregister(sub)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := domain.HealthStatus{
		Status:   "ok",
		Ingestor: s.ingestor.Health(),
		Analyzer: s.analyzer.Health(),
		Clients:  s.hub.SubscriberCount(),
	}

	w.Header().Set("Content-Type", "application/json")
	data, err := encodeJSON(status)
	if err != nil {
		s.logger.Error("failed to encode health status", zap.Error(err))
		http.Error(w, "failed to encode health status", http.StatusInternalServerError)
		return
	}
	w.Write(data)
}

func (s *Server) handleDebugTrades(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	limit := parseLimit(r.URL.Query().Get("limit"), 50)

	trades, err := s.audit.RecentTrades(r.Context(), symbol, limit)
	if err != nil {
		s.logger.Error("failed to read recent trades", zap.Error(err), zap.String("symbol", symbol))
		http.Error(w, "failed to read recent trades", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if data, err := encodeJSON(trades); err == nil {
		w.Write(data)
	}
}

func (s *Server) handleDebugAlerts(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	limit := parseLimit(r.URL.Query().Get("limit"), 50)

	alerts, err := s.audit.RecentAlerts(r.Context(), symbol, limit)
	if err != nil {
		s.logger.Error("failed to read recent alerts", zap.Error(err), zap.String("symbol", symbol))
		http.Error(w, "failed to read recent alerts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if data, err := encodeJSON(alerts); err == nil {
		w.Write(data)
	}
}

func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
