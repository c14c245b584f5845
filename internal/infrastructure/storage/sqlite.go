package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/vitos/marketpulse/internal/domain"
)

// SQLiteStore is a best-effort local mirror of everything the pipeline
// publishes to the durable log. It is not the log itself (Redis Streams
// owns that contract) -- it exists so debug tooling has something
// to query without replaying the stream from offset zero.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			price TEXT NOT NULL,
			volume TEXT NOT NULL,
			event_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_symbol_event_ms ON trades(symbol, event_ms DESC);`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL,
			price REAL NOT NULL,
			trigger_type TEXT NOT NULL,
			trigger_value REAL NOT NULL,
			message TEXT NOT NULL,
			event_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_symbol_event_ms ON alerts(symbol, event_ms DESC);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveTrade mirrors a trade tick into the audit trail. Failures here are
// logged by the caller, never allowed to slow down the pipeline.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade domain.Trade) error {
	query := `INSERT INTO trades (symbol, price, volume, event_ms) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, trade.Symbol, trade.Price.String(), trade.Volume.String(), trade.EventMs)
	return err
}

func (s *SQLiteStore) RecentTrades(ctx context.Context, symbol string, limit int) ([]domain.Trade, error) {
	query := `SELECT symbol, price, volume, event_ms FROM trades WHERE symbol = ? ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var symbol, priceStr, volumeStr string
		var eventMs int64
		if err := rows.Scan(&symbol, &priceStr, &volumeStr, &eventMs); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored price %q: %w", priceStr, err)
		}
		volume, err := decimal.NewFromString(volumeStr)
		if err != nil {
			return nil, fmt.Errorf("parse stored volume %q: %w", volumeStr, err)
		}
		trades = append(trades, domain.Trade{Symbol: symbol, Price: price, Volume: volume, EventMs: eventMs})
	}
	return trades, nil
}

// SaveAlert mirrors a triggered alert into the audit trail.
func (s *SQLiteStore) SaveAlert(ctx context.Context, alert domain.AlertEvent) error {
	query := `INSERT INTO alerts (symbol, price, trigger_type, trigger_value, message, event_ms) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, alert.Symbol, alert.Price, string(alert.TriggerType), alert.TriggerValue, alert.Message, alert.EventMs)
	return err
}

func (s *SQLiteStore) RecentAlerts(ctx context.Context, symbol string, limit int) ([]domain.AlertEvent, error) {
	query := `SELECT symbol, price, trigger_type, trigger_value, message, event_ms FROM alerts`
	args := []interface{}{}
	if symbol != "" {
		query += ` WHERE symbol = ?`
		args = append(args, symbol)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.AlertEvent
	for rows.Next() {
		var a domain.AlertEvent
		var triggerType string
		if err := rows.Scan(&a.Symbol, &a.Price, &triggerType, &a.TriggerValue, &a.Message, &a.EventMs); err != nil {
			return nil, err
		}
		a.TriggerType = domain.TriggerKind(triggerType)
		alerts = append(alerts, a)
	}
	return alerts, nil
}

func (s *SQLiteStore) CountAlerts(ctx context.Context, symbol string) (int, error) {
	query := `SELECT COUNT(*) FROM alerts WHERE symbol = ?`
	var count int
	if err := s.db.QueryRowContext(ctx, query, symbol).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
