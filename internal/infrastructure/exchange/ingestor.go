package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vitos/marketpulse/internal/domain"
)

// State is the ingestor's connection lifecycle, exactly as described for
// the exchange feed: Disconnected -> Connecting -> Streaming ->
// Reconnecting -> Connecting, with exponential backoff on the
// Reconnecting leg.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateStreaming
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "disconnected"
	}
}

const (
	minBackoff      = 1 * time.Second
	maxBackoff      = 60 * time.Second
	readTimeout     = 30 * time.Second
	pingWriteWindow = 5 * time.Second
)

// wireMessage mirrors the exchange's tick payload: symbol, decimal price
// and quantity strings, and an epoch-millisecond event time.
type wireMessage struct {
	Symbol string `json:"s"`
	Price  string `json:"p"`
	Qty    string `json:"q"`
	TimeMs int64  `json:"T"`
}

// Ingestor maintains a websocket connection to the upstream exchange feed
// for a fixed symbol set, parses each tick into a domain.Trade and hands
// it to the configured sink. It owns its own reconnect/backoff loop so the
// Supervisor only has to Start/Stop it.
type Ingestor struct {
	url      string
	symbols  []string
	logStore domain.LogStore
	onTrade  func(domain.Trade)
	logger   *zap.Logger

	mu       sync.Mutex
	state    State
	conn     *websocket.Conn
	messages atomic.Int64

	cancel context.CancelFunc
	done   chan struct{}

	dialer func(url string) (*websocket.Conn, error)
}

func NewIngestor(url string, symbols []string, logStore domain.LogStore, onTrade func(domain.Trade), logger *zap.Logger) *Ingestor {
	return &Ingestor{
		url:      url,
		symbols:  symbols,
		logStore: logStore,
		onTrade:  onTrade,
		logger:   logger,
		state:    StateDisconnected,
		dialer:   defaultDialer,
	}
}

func defaultDialer(url string) (*websocket.Conn, error) {
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	return c, err
}

// Start launches the connect/read/reconnect loop in the background and
// returns immediately.
func (i *Ingestor) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	i.cancel = cancel
	i.done = make(chan struct{})

	go i.run(runCtx)
	return nil
}

// Stop cancels the run loop and waits for it to acknowledge.
func (i *Ingestor) Stop(ctx context.Context) error {
	if i.cancel == nil {
		return nil
	}
	i.cancel()

	select {
	case <-i.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (i *Ingestor) run(ctx context.Context) {
	defer close(i.done)

	backoff := minBackoff
	for {
		select {
		case <-ctx.Done():
			i.setState(StateDisconnected)
			return
		default:
		}

		i.setState(StateConnecting)
		conn, err := i.dialer(i.url)
		if err != nil {
			i.logger.Warn("ingestor dial failed", zap.Error(err), zap.Duration("backoff", backoff))
			if !i.sleepOrDone(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}

		i.mu.Lock()
		i.conn = conn
		i.mu.Unlock()
		i.setState(StateStreaming)
		backoff = minBackoff

		err = i.readLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			i.setState(StateDisconnected)
			return
		}

		i.logger.Warn("ingestor connection dropped, reconnecting", zap.Error(err))
		i.setState(StateReconnecting)
		if !i.sleepOrDone(ctx, backoff) {
			return
		}
		backoff = nextBackoff(backoff)
	}
}

func (i *Ingestor) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return err
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				// A read-deadline timeout is not a dead connection: probe
				// it with a ping and keep streaming. Only a genuine
				// transport error drops us into Reconnecting.
				if pingErr := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingWriteWindow)); pingErr != nil {
					return pingErr
				}
				continue
			}
			return err
		}

		var msg wireMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			i.logger.Warn("ingestor malformed message", zap.Error(err))
			continue
		}
		if msg.Symbol == "" {
			continue
		}

		trade, err := decodeTrade(msg)
		if err != nil {
			i.logger.Warn("ingestor could not parse trade", zap.Error(err), zap.String("symbol", msg.Symbol))
			continue
		}

		i.messages.Add(1)

		if i.logStore != nil {
			if encoded, err := json.Marshal(trade); err == nil {
				if err := i.logStore.Produce(ctx, "trades", trade.Symbol, encoded); err != nil {
					i.logger.Warn("failed to publish trade to log", zap.Error(err))
				}
			}
		}

		if i.onTrade != nil {
			i.onTrade(trade)
		}
	}
}

func decodeTrade(msg wireMessage) (domain.Trade, error) {
	price, err := decimal.NewFromString(msg.Price)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("parse price %q: %w", msg.Price, err)
	}
	qty, err := decimal.NewFromString(msg.Qty)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("parse quantity %q: %w", msg.Qty, err)
	}

	return domain.Trade{
		Symbol:  msg.Symbol,
		Price:   price,
		Volume:  qty,
		EventMs: msg.TimeMs,
	}, nil
}

func (i *Ingestor) sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func (i *Ingestor) setState(s State) {
	i.mu.Lock()
	i.state = s
	i.mu.Unlock()
}

func (i *Ingestor) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

func (i *Ingestor) Health() domain.IngestorHealth {
	i.mu.Lock()
	running := i.state == StateStreaming || i.state == StateConnecting
	i.mu.Unlock()
	return domain.IngestorHealth{
		Running:           running,
		MessagesProcessed: i.messages.Load(),
	}
}
