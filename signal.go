package stateful

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/ryanhamamura/stateful/h"
)

// Signal is a value that lives in the browser and is injected into the
// page Context right before each action runs.
//
// Use Bind() to connect a signal to an input and Text() to display it
// reactively on an html element.
type Signal struct {
	mu      sync.Mutex
	id      string
	val     any
	changed bool
	err     error
}

// ID returns the signal ID
func (s *Signal) ID() string {
	return s.id
}

// Err returns a signal error or nil if it contains no error.
func (s *Signal) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Bind binds this signal to an input element.
//
// Example:
//
//	h.Input(h.Type("text"), username.Bind())
func (s *Signal) Bind() h.H {
	return h.Data("bind", s.id)
}

// Text binds the signal value to a span element as text.
func (s *Signal) Text() h.H {
	return h.Span(h.Data("text", "$"+s.id))
}

// SetValue updates the value and marks it for the next Sync or SyncSignals.
func (s *Signal) SetValue(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.val = v
	s.changed = true
	s.err = nil
}

// String returns the signal value as a string.
func (s *Signal) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%v", s.val)
}

// Bool reads the value as a bool. Returns false when it is not a truthy word.
func (s *Signal) Bool() bool {
	val := strings.ToLower(s.String())
	return val == "true" || val == "1" || val == "yes" || val == "on"
}

// Int reads the value as an int. Returns 0 on failure.
func (s *Signal) Int() int {
	if n, err := strconv.Atoi(s.String()); err == nil {
		return n
	}
	// browsers send numbers as floats
	if f, err := strconv.ParseFloat(s.String(), 64); err == nil {
		return int(f)
	}
	return 0
}

// Float reads the value as a float64. Returns 0 on failure.
func (s *Signal) Float() float64 {
	if n, err := strconv.ParseFloat(s.String(), 64); err == nil {
		return n
	}
	return 0.0
}
