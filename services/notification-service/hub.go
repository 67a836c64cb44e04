package main

import (
	"log"
	"sync"

	"civicsync/pkg/middleware"
)

// Subscriber is one connected dashboard. Send is buffered; a subscriber
// that cannot drain it in time loses events rather than stalling the hub.
type Subscriber struct {
	ID   string
	Send chan []byte
}

// Hub fans report events out to every connected subscriber. Delivery is
// at-most-once and unordered across independent mutations: no acks, no
// retry, no replay for late joiners.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]bool
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]bool)}
}

func (h *Hub) Register(s *Subscriber) {
	h.mu.Lock()
	h.subscribers[s] = true
	total := len(h.subscribers)
	h.mu.Unlock()
	log.Printf("[INFO] Subscriber registered - %s (total: %d)", s.ID, total)
}

func (h *Hub) Unregister(s *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.Send)
	}
	total := len(h.subscribers)
	h.mu.Unlock()
	log.Printf("[INFO] Subscriber unregistered - %s (total: %d)", s.ID, total)
}

// Broadcast delivers the raw event payload to every subscriber. A full
// send buffer drops the event for that subscriber only.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subscribers {
		select {
		case s.Send <- payload:
			middleware.CountBroadcast("delivered")
		default:
			middleware.CountBroadcast("dropped")
		}
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
