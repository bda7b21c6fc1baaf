package toggle

import "fmt"

// State is the toggle state.
type State struct {
	On bool `json:"on"`
}

// Action is a request to transition a toggle. The set of actions is closed:
// ToggleAction and ResetAction are the only variants a reducer has to handle.
type Action interface {
	// Type names the action, e.g. "toggle".
	Type() string
	isAction()
}

// ToggleAction flips the state.
type ToggleAction struct{}

func (ToggleAction) Type() string { return "toggle" }
func (ToggleAction) isAction()    {}

// ResetAction replaces the state with Initial.
type ResetAction struct {
	Initial State
}

func (ResetAction) Type() string { return "reset" }
func (ResetAction) isAction()    {}

// UnknownActionError is the panic value of a reducer handed an action it does
// not know. It signals a broken caller, not a runtime condition.
type UnknownActionError struct {
	Action Action
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("toggle: %#v is not a proper action type", e.Action)
}

// Reducer computes the next state from the current state and an action.
// Implementations must be pure: a Machine calls Reduce exactly once per dispatch.
type Reducer interface {
	Reduce(s State, a Action) State
}

// ReducerFunc adapts a function to the Reducer interface.
type ReducerFunc func(s State, a Action) State

// Reduce calls f(s, a).
func (f ReducerFunc) Reduce(s State, a Action) State {
	return f(s, a)
}

// DefaultReducer is used when no reducer is configured.
var DefaultReducer Reducer = ReducerFunc(Reduce)

// Reduce is the standard toggle reducer. It panics with *UnknownActionError
// for anything other than ToggleAction or ResetAction.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ToggleAction:
		return State{On: !s.On}
	case ResetAction:
		return a.Initial
	default:
		panic(&UnknownActionError{Action: a})
	}
}
