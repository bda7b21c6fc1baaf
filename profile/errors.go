package profile

import (
	"errors"
	"fmt"
)

const unknownErrorMessage = "unknown error"

// Error is the uniform error stored in State and returned by Update.
type Error struct {
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// Rejection carries an arbitrary rejection payload as an error, for
// collaborators that fail with plain data rather than an error value.
type Rejection struct {
	Payload any
}

func (r *Rejection) Error() string {
	return NormalizeError(r.Payload).Message
}

// NormalizeError turns any failure shape into an *Error with a non-empty
// message: errors (including wrapped *Error and *Rejection), strings, maps
// holding a "message" key, and anything else through fmt.Sprint.
func NormalizeError(v any) *Error {
	var e *Error
	switch v := v.(type) {
	case nil:
		e = &Error{}
	case *Rejection:
		e = &Error{}
		if v != nil {
			e = &Error{Message: NormalizeError(v.Payload).Message, cause: v}
		}
	case error:
		e = fromError(v)
	case string:
		e = &Error{Message: v}
	case map[string]any:
		e = &Error{Message: messageOf(v["message"], v)}
	case map[string]string:
		m, ok := v["message"]
		if !ok {
			m = fmt.Sprint(v)
		}
		e = &Error{Message: m}
	default:
		e = &Error{Message: fmt.Sprint(v)}
	}
	if e.Message == "" {
		e.Message = unknownErrorMessage
	}
	return e
}

// fromError keeps an *Error found in the chain when it carries a message.
func fromError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		if pe == nil {
			return &Error{}
		}
		if pe.Message != "" {
			return pe
		}
		return &Error{cause: err}
	}
	var rej *Rejection
	if errors.As(err, &rej) {
		if rej == nil {
			return &Error{}
		}
		return &Error{Message: rej.Error(), cause: err}
	}
	return &Error{Message: err.Error(), cause: err}
}

func messageOf(msg any, whole any) string {
	if msg == nil {
		return fmt.Sprint(whole)
	}
	return fmt.Sprint(msg)
}
