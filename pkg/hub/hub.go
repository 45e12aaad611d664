// Package hub fans out state-change events to all live real-time
// subscribers. Subscribers with failing connections are pruned during the
// broadcast pass; a dead subscriber never blocks delivery to the rest.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Subscriber is a live real-time connection. Send must be safe to call from
// multiple goroutines.
type Subscriber interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// SubscriberInfo is read-only introspection of one subscriber.
type SubscriberInfo struct {
	ClientID           string    `json:"clientId"`
	ConnectedAt        time.Time `json:"connectedAt"`
	ConnectionDuration float64   `json:"connectionDuration"`
}

type Hub struct {
	mu          sync.Mutex
	subscribers map[string]Subscriber
	connectedAt map[string]time.Time
	logger      *zap.Logger
}

func New(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]Subscriber),
		connectedAt: make(map[string]time.Time),
		logger:      logger.Named("hub"),
	}
}

// Subscribe registers the subscriber and pushes a welcome event to it alone.
func (h *Hub) Subscribe(sub Subscriber) {
	h.mu.Lock()
	h.subscribers[sub.ID()] = sub
	h.connectedAt[sub.ID()] = time.Now().UTC()
	h.mu.Unlock()

	welcome := map[string]interface{}{
		"type":      "connection_established",
		"message":   "Connected to Octra Hardware Wallet Simulator",
		"clientId":  sub.ID(),
		"timestamp": time.Now().UTC(),
	}

	data, err := json.Marshal(welcome)
	if err != nil {
		h.logger.Error("failed to marshal welcome event", zap.Error(err))
		return
	}

	if err := sub.Send(data); err != nil {
		h.logger.Error("failed to send welcome event", zap.String("clientId", sub.ID()), zap.Error(err))
		h.Unsubscribe(sub.ID())
		return
	}

	h.logger.Debug("subscriber registered", zap.String("clientId", sub.ID()))
}

// Unsubscribe removes the subscriber. Removing an absent ID is a no-op.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subscribers[id]
	if !ok {
		return
	}

	delete(h.subscribers, id)
	delete(h.connectedAt, id)

	if err := sub.Close(); err != nil {
		h.logger.Debug("failed to close subscriber", zap.String("clientId", id), zap.Error(err))
	}

	h.logger.Debug("subscriber removed", zap.String("clientId", id))
}

// Broadcast serializes the event once and pushes it to every current
// subscriber. Subscribers whose push fails are unsubscribed as part of the
// same pass. Returns how many subscribers were delivered to.
func (h *Hub) Broadcast(event interface{}) int {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.Error(err))
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for id, sub := range h.subscribers {
		if err := sub.Send(data); err != nil {
			h.logger.Debug("dropping dead subscriber", zap.String("clientId", id), zap.Error(err))
			delete(h.subscribers, id)
			delete(h.connectedAt, id)
			_ = sub.Close()
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

func (h *Hub) ListInfo() []SubscriberInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now().UTC()
	out := make([]SubscriberInfo, 0, len(h.subscribers))
	for id := range h.subscribers {
		connectedAt := h.connectedAt[id]
		out = append(out, SubscriberInfo{
			ClientID:           id,
			ConnectedAt:        connectedAt,
			ConnectionDuration: now.Sub(connectedAt).Seconds(),
		})
	}
	return out
}
