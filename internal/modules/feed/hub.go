package feed

import (
	"sync"

	"harvesthaven/internal/domain"

	"go.uber.org/zap"
)

const sendBuffer = 16

// Gauge tracks open feed connections. prometheus.Gauge satisfies it.
type Gauge interface {
	Inc()
	Dec()
}

type client struct {
	identity domain.Identity
	send     chan domain.ListingEvent
}

// Hub fans listing events out to connected websocket clients.
type Hub struct {
	clients map[*client]struct{}
	mutex   sync.RWMutex
	gauge   Gauge
	log     *zap.Logger
}

func NewHub(gauge Gauge, log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		gauge:   gauge,
		log:     log,
	}
}

func (h *Hub) register(identity domain.Identity) *client {
	c := &client{identity: identity, send: make(chan domain.ListingEvent, sendBuffer)}

	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()

	if h.gauge != nil {
		h.gauge.Inc()
	}
	return c
}

func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mutex.Unlock()

	if ok && h.gauge != nil {
		h.gauge.Dec()
	}
}

// Publish is registered as a listing store observer. It never blocks: a client whose
// buffer is full is disconnected.
func (h *Hub) Publish(ev domain.ListingEvent) {
	var slow []*client

	h.mutex.RLock()
	for c := range h.clients {
		if !Visible(c.identity, ev) {
			continue
		}
		select {
		case c.send <- ev:
		default:
			slow = append(slow, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range slow {
		h.log.Warn("dropping slow feed client", zap.String("user_id", c.identity.ID))
		h.unregister(c)
	}
}

func (h *Hub) GetOnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.RLock()
	all := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mutex.RUnlock()

	for _, c := range all {
		h.unregister(c)
	}
}

// Visible reports whether the caller may see the event. Admins see everything; everyone
// else sees approved listings and their own.
func Visible(who domain.Identity, ev domain.ListingEvent) bool {
	if who.IsAdmin() {
		return true
	}
	if ev.Listing.OwnerID == who.ID {
		return true
	}
	return ev.Listing.Status == domain.ListingApproved || ev.PrevStatus == domain.ListingApproved
}
