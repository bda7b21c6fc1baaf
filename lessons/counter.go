package lessons

import (
	"fmt"
	"sync"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/h"
)

// CounterAction is Increment or Decrement.
type CounterAction interface {
	step() int
}

// Increment adds Step, or the store's default step when Step is zero.
type Increment struct{ Step int }

// Decrement subtracts Step, or the store's default step when Step is zero.
type Decrement struct{ Step int }

func (a Increment) step() int { return a.Step }
func (a Decrement) step() int { return a.Step }

// CounterStore holds a count changed only through Dispatch.
type CounterStore struct {
	mu    sync.Mutex
	count int
	step  int
}

// NewCounterStore returns a store starting at initial. A step below 1 means 1.
func NewCounterStore(initial, step int) *CounterStore {
	if step < 1 {
		step = 1
	}
	return &CounterStore{count: initial, step: step}
}

// Count returns the current count.
func (s *CounterStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Dispatch applies a. Unknown actions panic.
func (s *CounterStore) Dispatch(a CounterAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	change := a.step()
	if change == 0 {
		change = s.step
	}
	switch a.(type) {
	case Increment:
		s.count += change
	case Decrement:
		s.count -= change
	default:
		panic(fmt.Sprintf("counter: unhandled action %T", a))
	}
}

// IncrementCounter dispatches a default Increment on s.
func IncrementCounter(s *CounterStore) { s.Dispatch(Increment{}) }

// DecrementCounter dispatches a default Decrement on s.
func DecrementCounter(s *CounterStore) { s.Dispatch(Decrement{}) }

func counterPage(Deps) func(c *stateful.Context) {
	return func(c *stateful.Context) {
		store := NewCounterStore(0, 1)
		dec := c.Action(func() {
			DecrementCounter(store)
			c.Sync()
		})
		inc := c.Action(func() {
			IncrementCounter(store)
			c.Sync()
		})
		c.View(func() h.H {
			return page("Counter (context module)",
				h.Div(h.Textf("Current Count: %d", store.Count())),
				h.Button(dec.OnClick(), h.Text("-")),
				h.Button(inc.OnClick(), h.Text("+")),
			)
		})
	}
}
