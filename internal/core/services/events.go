package services

import (
	"sync"

	"github.com/questtrack/refsync/internal/core/domain"
	"github.com/questtrack/refsync/internal/core/ports/driving"
)

// Ensure EventHub implements the interface.
var _ driving.CacheEvents = (*EventHub)(nil)

// EventHub fans cache-update events out to subscribers. It replaces the
// listener-callback pattern with an explicit channel subscription: the sync
// path publishes after each successful generation commit, and consumers that
// prefer pull simply never subscribe.
type EventHub struct {
	mu   sync.Mutex
	subs map[domain.DataDomain]map[int]chan domain.CacheUpdate
	next int
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{
		subs: make(map[domain.DataDomain]map[int]chan domain.CacheUpdate),
	}
}

// Subscribe registers for updates on one domain. The returned cancel
// function must be called to release the subscription. The channel has a
// one-element buffer; a subscriber that falls behind misses intermediate
// updates but never blocks the publisher.
func (h *EventHub) Subscribe(d domain.DataDomain) (<-chan domain.CacheUpdate, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[d] == nil {
		h.subs[d] = make(map[int]chan domain.CacheUpdate)
	}
	id := h.next
	h.next++
	ch := make(chan domain.CacheUpdate, 1)
	h.subs[d][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[d][id]; ok {
			delete(h.subs[d], id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers an update to every subscriber of the domain without
// blocking.
func (h *EventHub) Publish(update domain.CacheUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[update.Domain] {
		select {
		case ch <- update:
		default:
			// Drop stale update for a full buffer; the subscriber will see
			// the next one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- update:
			default:
			}
		}
	}
}
