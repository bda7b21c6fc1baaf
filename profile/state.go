package profile

import "fmt"

// Status is the advisory status of the last update.
type Status int

const (
	Idle Status = iota
	Pending
	Resolved
	Rejected
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// State is the profile state owned by a Store.
type State struct {
	User User
	// Stored is the snapshot taken by the last StartUpdate.
	Stored *User
	Status Status
	Err    *Error
}

// NewState returns the idle state for u.
func NewState(u User) State {
	stored := u
	return State{User: u, Stored: &stored, Status: Idle}
}

// Action is a profile transition. The set is closed.
type Action interface {
	Type() string
	isAction()
}

// StartUpdate applies Updates optimistically and snapshots the current user.
type StartUpdate struct {
	Updates Updates
}

// FinishUpdate stores the collaborator's result.
type FinishUpdate struct {
	Updated User
}

// FailUpdate restores the snapshot and records Err.
type FailUpdate struct {
	Err *Error
}

// Reset returns to idle and clears the error.
type Reset struct{}

func (StartUpdate) Type() string  { return "start update" }
func (FinishUpdate) Type() string { return "finish update" }
func (FailUpdate) Type() string   { return "fail update" }
func (Reset) Type() string        { return "reset" }

func (StartUpdate) isAction()  {}
func (FinishUpdate) isAction() {}
func (FailUpdate) isAction()   {}
func (Reset) isAction()        {}

// UnknownActionError is the panic value of Reduce for an unknown action.
type UnknownActionError struct {
	Action Action
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("profile: %#v is not a proper action type", e.Action)
}

// Reduce is the profile reducer.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case StartUpdate:
		stored := s.User
		s.Stored = &stored
		s.User = s.User.Apply(a.Updates)
		s.Status = Pending
	case FinishUpdate:
		s.User = a.Updated
		s.Stored = nil
		s.Status = Resolved
		s.Err = nil
	case FailUpdate:
		if s.Stored != nil {
			s.User = *s.Stored
		}
		s.Stored = nil
		s.Status = Rejected
		s.Err = a.Err
	case Reset:
		s.Status = Idle
		s.Err = nil
	default:
		panic(&UnknownActionError{Action: a})
	}
	return s
}
