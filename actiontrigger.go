package stateful

import (
	"fmt"
	"strconv"

	"github.com/ryanhamamura/stateful/h"
)

// ActionTrigger binds a registered action to a DOM event.
type ActionTrigger struct {
	id string
}

// ID returns the action id used in the /_action/{id} route.
func (a *ActionTrigger) ID() string {
	return a.id
}

// TriggerOption configures how a trigger fires.
type TriggerOption func(*triggerOpts)

type signalSet struct {
	id    string
	value string
}

type triggerOpts struct {
	sets           []signalSet
	window         bool
	preventDefault bool
}

// WithWindow scopes the event listener to the window instead of the element.
func WithWindow() TriggerOption {
	return func(o *triggerOpts) { o.window = true }
}

// WithPreventDefault stops the browser default for the event, e.g. a form submit.
func WithPreventDefault() TriggerOption {
	return func(o *triggerOpts) { o.preventDefault = true }
}

// WithSignal sets a signal to a string value before the action fires.
func WithSignal(sig *Signal, value string) TriggerOption {
	return func(o *triggerOpts) {
		o.sets = append(o.sets, signalSet{id: sig.ID(), value: strconv.Quote(value)})
	}
}

// WithSignalInt sets a signal to an int value before the action fires.
func WithSignalInt(sig *Signal, value int) TriggerOption {
	return func(o *triggerOpts) {
		o.sets = append(o.sets, signalSet{id: sig.ID(), value: strconv.Itoa(value)})
	}
}

func applyOptions(options ...TriggerOption) triggerOpts {
	var opts triggerOpts
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return opts
}

func (a *ActionTrigger) expr(opts triggerOpts) string {
	var out string
	if opts.preventDefault {
		out = "evt.preventDefault();"
	}
	for _, s := range opts.sets {
		out += fmt.Sprintf("$%s=%s;", s.id, s.value)
	}
	return out + fmt.Sprintf("@get('/_action/%s')", a.id)
}

func eventAttr(event string, opts triggerOpts) string {
	name := "on:" + event
	if opts.window {
		name += "__window"
	}
	return name
}

// OnClick returns an attribute that fires the action on click.
func (a *ActionTrigger) OnClick(options ...TriggerOption) h.H {
	opts := applyOptions(options...)
	return h.Data(eventAttr("click", opts), a.expr(opts))
}

// OnChange returns an attribute that fires the action on input change,
// debounced by 200ms.
func (a *ActionTrigger) OnChange(options ...TriggerOption) h.H {
	opts := applyOptions(options...)
	return h.Data(eventAttr("change", opts)+"__debounce.200ms", a.expr(opts))
}

// OnSubmit returns an attribute for forms. The browser submit is always prevented.
func (a *ActionTrigger) OnSubmit(options ...TriggerOption) h.H {
	opts := applyOptions(options...)
	opts.preventDefault = true
	return h.Data(eventAttr("submit", opts), a.expr(opts))
}

// OnKeyDown fires the action when key is pressed. An empty key matches any key.
// See https://developer.mozilla.org/en-US/docs/Web/API/KeyboardEvent/key
func (a *ActionTrigger) OnKeyDown(key string, options ...TriggerOption) h.H {
	opts := applyOptions(options...)
	var cond string
	if key != "" {
		cond = fmt.Sprintf("evt.key==='%s' && ", key)
	}
	return h.Data(eventAttr("keydown", opts), cond+a.expr(opts))
}
