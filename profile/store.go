package profile

import (
	"sync"

	"github.com/rs/zerolog"
)

// Reducer computes the next profile state.
type Reducer func(State, Action) State

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithReducer replaces Reduce. The replacement usually delegates to Reduce.
func WithReducer(r Reducer) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.reducer = r
		}
	}
}

// WithLogger logs every transition at debug level.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// Store owns a profile State. Pages hold a Store and pass it explicitly to
// whatever needs the profile. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	state   State
	reducer Reducer
	logger  zerolog.Logger
	subs    map[int]func(State)
	nextSub int
}

// NewStore returns a Store holding the idle state for initial.
func NewStore(initial User, opts ...StoreOption) *Store {
	s := &Store{
		state:   NewState(initial),
		reducer: Reduce,
		logger:  zerolog.Nop(),
		subs:    make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a into the state and notifies subscribers in
// subscription order.
func (s *Store) Dispatch(a Action) {
	next, subs := s.reduce(a)
	s.logger.Debug().
		Str("action", a.Type()).
		Stringer("status", next.Status).
		Msg("profile transition")
	for _, fn := range subs {
		fn(next)
	}
}

func (s *Store) reduce(a Action) (State, []func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.reducer(s.state, a)
	subs := make([]func(State), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	return s.state, subs
}

// Subscribe registers fn to receive every new state. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
