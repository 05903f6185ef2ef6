package realtime

import (
	"context"
	"sync"

	"station-dashboard/internal/common/metrics"
)

const clientBuffer = 16

// Hub fans consumed events out to connected stream clients. Slow clients miss events
// instead of blocking the subscription.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan PriceChange]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan PriceChange]struct{})}
}

// Register adds a client. The returned func unregisters it and closes the channel.
func (h *Hub) Register() (<-chan PriceChange, func()) {
	ch := make(chan PriceChange, clientBuffer)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	metrics.PriceStreamClients.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, ch)
			h.mu.Unlock()
			close(ch)
			metrics.PriceStreamClients.Dec()
		})
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Consume satisfies Consumer.
func (h *Hub) Consume(ctx context.Context, change PriceChange) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- change:
		default:
		}
	}
	return nil
}
