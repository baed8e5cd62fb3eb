// Package stream fans freshly analyzed records out to live listeners.
// Delivery is at-least-once, best-effort: a slow listener buffers without
// back-pressuring the publisher, and each listener sees events in publish
// order starting from the moment it subscribed
package stream

import (
	"sync"

	"fxradar/internal/platform/logger"
	news "fxradar/internal/services/news/domain"
)

// Subscriber receives published records over C in publish order. The queue
// between Publish and C is unbounded, so a slow reader never stalls the hub
type Subscriber struct {
	C chan news.Record

	mu     sync.Mutex
	queue  []news.Record
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

func newSubscriber() *Subscriber {
	s := &Subscriber{
		C:    make(chan news.Record),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go s.pump()
	return s
}

// enqueue never blocks; the queue grows as needed
func (s *Subscriber) enqueue(rec news.Record) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, rec)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscriber) pump() {
	defer close(s.C)
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
		for {
			s.mu.Lock()
			if len(s.queue) == 0 {
				s.mu.Unlock()
				break
			}
			rec := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			select {
			case s.C <- rec:
			case <-s.done:
				return
			}
		}
	}
}

func (s *Subscriber) stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.queue = nil
	s.mu.Unlock()
	close(s.done)
}

// Hub is the broadcast point. Publish delivers to the subscribers present
// at call time; joining mid-stream yields only later events
type Hub struct {
	log logger.Logger

	mu   sync.RWMutex
	subs map[*Subscriber]struct{}
}

// NewHub constructs an empty hub
func NewHub(log logger.Logger) *Hub {
	return &Hub{log: log, subs: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new listener
func (h *Hub) Subscribe() *Subscriber {
	sub := newSubscriber()
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	h.log.Debug().Int("subscribers", n).Msg("stream subscriber joined")
	return sub
}

// Unsubscribe removes a listener and drains its queue. Safe to call for a
// subscriber that already left
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subs[sub]
	delete(h.subs, sub)
	n := len(h.subs)
	h.mu.Unlock()
	if ok {
		sub.stop()
		h.log.Debug().Int("subscribers", n).Msg("stream subscriber left")
	}
}

// Publish enqueues rec for every current subscriber without blocking
func (h *Hub) Publish(rec news.Record) {
	h.mu.RLock()
	snapshot := make([]*Subscriber, 0, len(h.subs))
	for sub := range h.subs {
		snapshot = append(snapshot, sub)
	}
	h.mu.RUnlock()
	for _, sub := range snapshot {
		sub.enqueue(rec)
	}
}

// Len reports the current subscriber count
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
