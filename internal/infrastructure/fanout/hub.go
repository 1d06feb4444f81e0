package fanout

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultBufferSize = 16
	defaultMaxClients = 1000
)

// Message is one payload pushed to connected clients
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Subscription is one connected client. Receive messages from C;
// call the hub's Unsubscribe when done.
type Subscription struct {
	ID uuid.UUID
	C  chan Message

	storeID *uuid.UUID
}

// Hub fans messages out to subscribers. Clients either watch a single
// store or the global feed. Delivery is best effort: a subscriber
// whose buffer is full misses the message rather than blocking the
// publisher.
type Hub struct {
	mu         sync.RWMutex
	byStore    map[uuid.UUID]map[uuid.UUID]*Subscription
	global     map[uuid.UUID]*Subscription
	maxClients int
	logger     *zap.Logger
}

// NewHub creates a fanout hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		byStore:    make(map[uuid.UUID]map[uuid.UUID]*Subscription),
		global:     make(map[uuid.UUID]*Subscription),
		maxClients: defaultMaxClients,
		logger:     logger,
	}
}

// SubscribeStore registers a client interested in one store's feed.
// Returns nil when the hub is at capacity.
func (h *Hub) SubscribeStore(storeID uuid.UUID) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clientCountLocked() >= h.maxClients {
		h.logger.Warn("fanout hub at capacity, rejecting subscriber",
			zap.String("store_id", storeID.String()))
		return nil
	}

	sub := &Subscription{
		ID:      uuid.New(),
		C:       make(chan Message, defaultBufferSize),
		storeID: &storeID,
	}
	if h.byStore[storeID] == nil {
		h.byStore[storeID] = make(map[uuid.UUID]*Subscription)
	}
	h.byStore[storeID][sub.ID] = sub
	return sub
}

// SubscribeGlobal registers a client interested in every store.
// Returns nil when the hub is at capacity.
func (h *Hub) SubscribeGlobal() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clientCountLocked() >= h.maxClients {
		h.logger.Warn("fanout hub at capacity, rejecting subscriber")
		return nil
	}

	sub := &Subscription{
		ID: uuid.New(),
		C:  make(chan Message, defaultBufferSize),
	}
	h.global[sub.ID] = sub
	return sub
}

// Unsubscribe removes a client and closes its channel
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.storeID != nil {
		if subs, ok := h.byStore[*sub.storeID]; ok {
			if _, present := subs[sub.ID]; present {
				delete(subs, sub.ID)
				close(sub.C)
			}
			if len(subs) == 0 {
				delete(h.byStore, *sub.storeID)
			}
		}
		return
	}
	if _, present := h.global[sub.ID]; present {
		delete(h.global, sub.ID)
		close(sub.C)
	}
}

// PublishToStore delivers a message to the store's subscribers and to
// all global subscribers
func (h *Hub) PublishToStore(storeID uuid.UUID, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.byStore[storeID] {
		h.send(sub, msg)
	}
	for _, sub := range h.global {
		h.send(sub, msg)
	}
}

// PublishGlobal delivers a message to global subscribers only
func (h *Hub) PublishGlobal(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.global {
		h.send(sub, msg)
	}
}

func (h *Hub) send(sub *Subscription, msg Message) {
	select {
	case sub.C <- msg:
	default:
		h.logger.Debug("dropping message for slow subscriber",
			zap.String("subscription_id", sub.ID.String()))
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clientCountLocked()
}

func (h *Hub) clientCountLocked() int {
	n := len(h.global)
	for _, subs := range h.byStore {
		n += len(subs)
	}
	return n
}
