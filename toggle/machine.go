package toggle

import (
	"sync"

	"github.com/ryanhamamura/stateful/warning"
)

// Controls are the values a parent may change on every render.
type Controls struct {
	// On puts the toggle in controlled mode when non-nil. The pointed-to
	// value is read on every access.
	On *bool
	// OnChange observes every dispatch with the reducer's result.
	OnChange func(State, Action)
	// Reducer replaces the standard reducer when non-nil.
	Reducer Reducer
	// ReadOnly silences the controlled-without-OnChange warning.
	ReadOnly bool
}

// Options configure a new Machine.
type Options struct {
	// InitialOn seeds the internal state. Reset always restores this value.
	InitialOn bool
	// Name is used in warning messages. Defaults to "Toggle".
	Name string
	// Warn receives advisory warnings. Defaults to warning.Warn.
	Warn warning.Func
	Controls
}

// Machine is a toggle state machine with a pluggable reducer and optional
// external control. It is safe for concurrent use.
type Machine struct {
	mu       sync.Mutex
	name     string
	warn     warning.Func
	initial  State
	state    State
	controls Controls

	wasControlled  bool
	readOnlyWarned bool
}

// New returns a Machine seeded with opts.InitialOn.
func New(opts Options) *Machine {
	m := &Machine{
		name:          opts.Name,
		warn:          opts.Warn,
		initial:       State{On: opts.InitialOn},
		controls:      opts.Controls,
		wasControlled: opts.On != nil,
	}
	if m.name == "" {
		m.name = "Toggle"
	}
	if m.warn == nil {
		m.warn = warning.Warn
	}
	m.state = m.initial
	m.emit(m.checkReadOnlyLocked())
	return m
}

// Update applies the controls of a new render. Switching between controlled
// and uncontrolled mode is reported through the warning sink.
func (m *Machine) Update(c Controls) {
	m.mu.Lock()
	m.controls = c
	controlled := c.On != nil
	var warns []check
	warns = append(warns,
		check{!(controlled && !m.wasControlled), switchMessage(m.name, "on", false)},
		check{!(!controlled && m.wasControlled), switchMessage(m.name, "on", true)},
	)
	m.wasControlled = controlled
	warns = append(warns, m.checkReadOnlyLocked()...)
	m.mu.Unlock()
	m.emit(warns)
}

// On returns the exposed value: the controlled value when controlled,
// the internal state otherwise.
func (m *Machine) On() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onLocked()
}

// IsControlled reports whether the current render supplies On.
func (m *Machine) IsControlled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.controls.On != nil
}

// State returns the internal state. It is not surfaced while controlled.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Initial returns the state captured at construction.
func (m *Machine) Initial() State {
	return m.initial
}

// Toggle dispatches a ToggleAction.
func (m *Machine) Toggle() {
	m.Dispatch(ToggleAction{})
}

// Reset dispatches a ResetAction carrying the state captured at construction.
func (m *Machine) Reset() {
	m.Dispatch(ResetAction{Initial: m.initial})
}

// Dispatch runs a through the reducer, commits the result when uncontrolled
// and reports it to OnChange in both modes.
func (m *Machine) Dispatch(a Action) {
	next, onChange := m.reduce(a)
	if onChange != nil {
		onChange(next, a)
	}
}

func (m *Machine) reduce(a Action) (State, func(State, Action)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reducer := m.controls.Reducer
	if reducer == nil {
		reducer = DefaultReducer
	}
	current := m.state
	current.On = m.onLocked()
	next := reducer.Reduce(current, a)
	if m.controls.On == nil {
		m.state = next
	}
	return next, m.controls.OnChange
}

// TogglerProps returns the binding for the element that flips the toggle.
func (m *Machine) TogglerProps(overrides Props) Props {
	on := m.On()
	return Merge(Props{
		Attrs: map[string]any{
			AttrAriaPressed: on,
			AttrOn:          on,
		},
		OnClick: m.Toggle,
	}, overrides)
}

// ResetterProps returns the binding for the element that resets the toggle.
func (m *Machine) ResetterProps(overrides Props) Props {
	return Merge(Props{OnClick: m.Reset}, overrides)
}

func (m *Machine) onLocked() bool {
	if m.controls.On != nil {
		return *m.controls.On
	}
	return m.state.On
}

func (m *Machine) checkReadOnlyLocked() []check {
	c := m.controls
	readOnly := c.On != nil && c.OnChange == nil && !c.ReadOnly
	if !readOnly {
		m.readOnlyWarned = false
		return nil
	}
	if m.readOnlyWarned {
		return nil
	}
	m.readOnlyWarned = true
	return []check{{false, readOnlyMessage(m.name, "on", "onChange", "readOnly", "initialOn")}}
}

func (m *Machine) emit(checks []check) {
	for _, c := range checks {
		m.warn(c.ok, c.message)
	}
}
