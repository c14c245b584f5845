package web

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const subscriberSendBuffer = 64

// subscriber wraps one websocket connection with a buffered outbound queue.
// A single writePump goroutine owns conn.WriteMessage so concurrent
// broadcasts never race on the connection.
type subscriber struct {
	id     string
	symbol string
	conn   *websocket.Conn
	send   chan frame
}

type frame struct {
	msgType int
	data    []byte
}

// Hub is the subscriber registry behind usecase.Broadcaster. It fans
// analysis text and TTS audio out to every attached websocket client,
// evicting any subscriber whose send buffer is full or whose connection
// errors rather than letting one slow reader stall the others.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
		logger:      logger,
	}
}

// Register attaches a new connection and starts its write pump. The
// symbol filter is informational only; every subscriber currently
// receives every broadcast.
func (h *Hub) Register(conn *websocket.Conn, symbol string) *subscriber {
	sub := &subscriber{
		id:     uuid.NewString(),
		symbol: symbol,
		conn:   conn,
		send:   make(chan frame, subscriberSendBuffer),
	}

	h.mu.Lock()
	h.subscribers[sub.id] = sub
	h.mu.Unlock()

	go h.writePump(sub)
	return sub
}

func (h *Hub) Unregister(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub.id]; ok {
		delete(h.subscribers, sub.id)
		close(sub.send)
	}
	h.mu.Unlock()
}

func (h *Hub) writePump(sub *subscriber) {
	for f := range sub.send {
		if err := sub.conn.WriteMessage(f.msgType, f.data); err != nil {
			h.logger.Warn("dropping subscriber after write error", zap.String("subscriber_id", sub.id), zap.Error(err))
			h.Unregister(sub)
			sub.conn.Close()
			return
		}
	}
}

// BroadcastJSON implements usecase.Broadcaster.
func (h *Hub) BroadcastJSON(v any) error {
	data, err := encodeJSON(v)
	if err != nil {
		return err
	}
	h.broadcast(frame{msgType: websocket.TextMessage, data: data})
	return nil
}

// BroadcastBinary implements usecase.Broadcaster, used for TTS audio.
func (h *Hub) BroadcastBinary(data []byte) error {
	h.broadcast(frame{msgType: websocket.BinaryMessage, data: data})
	return nil
}

// broadcast fans f out to every subscriber's send buffer. A subscriber
// whose buffer is already full is evicted rather than left to miss every
// future message: overflow is collected while holding the read lock and
// the subscribers are unregistered afterward, since Unregister needs the
// write lock.
func (h *Hub) broadcast(f frame) {
	h.mu.RLock()
	var overflowed []*subscriber
	for _, sub := range h.subscribers {
		select {
		case sub.send <- f:
		default:
			overflowed = append(overflowed, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range overflowed {
		h.logger.Warn("evicting slow subscriber, send buffer full", zap.String("subscriber_id", sub.id))
		h.Unregister(sub)
		sub.conn.Close()
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
