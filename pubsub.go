package stateful

import (
	"errors"
	"sync"
	"sync/atomic"
)

// PubSub is an interface for publish/subscribe messaging backends.
// The natsbus package provides an embedded NATS implementation.
type PubSub interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (Subscription, error)
	Close() error
}

// Subscription represents an active subscription that can be manually unsubscribed.
type Subscription interface {
	Unsubscribe() error
}

// ErrPubSubClosed is returned by a closed MemoryPubSub.
var ErrPubSubClosed = errors.New("pubsub closed")

type memoryHandler struct {
	fn     func([]byte)
	active atomic.Bool
}

// MemoryPubSub is an in-process PubSub. Handlers run synchronously on the
// publisher's goroutine in subscription order.
type MemoryPubSub struct {
	mu     sync.Mutex
	subs   map[string][]*memoryHandler
	closed bool
}

// NewMemoryPubSub returns an empty in-process bus.
func NewMemoryPubSub() *MemoryPubSub {
	return &MemoryPubSub{subs: make(map[string][]*memoryHandler)}
}

// Publish delivers data to every active handler of subject.
func (m *MemoryPubSub) Publish(subject string, data []byte) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrPubSubClosed
	}
	handlers := make([]*memoryHandler, len(m.subs[subject]))
	copy(handlers, m.subs[subject])
	m.mu.Unlock()

	for _, h := range handlers {
		if h.active.Load() {
			h.fn(data)
		}
	}
	return nil
}

// Subscribe registers handler for subject.
func (m *MemoryPubSub) Subscribe(subject string, handler func(data []byte)) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrPubSubClosed
	}
	mh := &memoryHandler{fn: handler}
	mh.active.Store(true)
	m.subs[subject] = append(m.subs[subject], mh)
	return &memorySub{bus: m, subject: subject, handler: mh}, nil
}

// Close drops all subscriptions.
func (m *MemoryPubSub) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.subs = make(map[string][]*memoryHandler)
	return nil
}

type memorySub struct {
	bus     *MemoryPubSub
	subject string
	handler *memoryHandler
}

func (s *memorySub) Unsubscribe() error {
	s.handler.active.Store(false)
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	hs := s.bus.subs[s.subject]
	for i, h := range hs {
		if h == s.handler {
			s.bus.subs[s.subject] = append(hs[:i:i], hs[i+1:]...)
			break
		}
	}
	return nil
}
