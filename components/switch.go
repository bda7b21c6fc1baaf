// Package components holds views shared by the lessons.
package components

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/ryanhamamura/stateful"
	"github.com/ryanhamamura/stateful/h"
	"github.com/ryanhamamura/stateful/toggle"
)

// Attrs renders the attributes of p. Booleans become "true"/"false" except
// disabled, which follows HTML boolean semantics. The internal "on" flag is
// not rendered.
func Attrs(p toggle.Props) h.H {
	keys := make([]string, 0, len(p.Attrs))
	for k := range p.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]h.H, 0, len(keys))
	for _, k := range keys {
		switch v := p.Attrs[k].(type) {
		case nil:
		case bool:
			switch k {
			case toggle.AttrOn:
			case toggle.AttrDisabled:
				out = append(out, h.If(v, h.Disabled()))
			default:
				out = append(out, h.Attr(k, strconv.FormatBool(v)))
			}
		case string:
			out = append(out, h.Attr(k, v))
		default:
			out = append(out, h.Attr(k, fmt.Sprint(v)))
		}
	}
	return h.Fragment(out...)
}

// Switch renders a toggle switch for p. Clicking it fires trigger; a nil
// trigger renders an inert switch.
func Switch(p toggle.Props, trigger *stateful.ActionTrigger) h.H {
	on := p.Bool(toggle.AttrOn)
	btnClass := "toggle-btn toggle-btn-off"
	if on {
		btnClass = "toggle-btn toggle-btn-on"
	}
	var click h.H
	if trigger != nil && !p.Bool(toggle.AttrDisabled) {
		click = trigger.OnClick()
	}
	return h.Label(
		h.Aria("label", "Toggle"),
		h.Style("display: block"),
		h.Input(
			h.Class("toggle-input"),
			h.Type("checkbox"),
			h.If(on, h.Checked()),
			h.If(p.Bool(toggle.AttrDisabled), h.Disabled()),
			h.Data("testid", "toggle-input"),
			click,
		),
		h.Span(h.Class(btnClass), Attrs(p)),
	)
}

// SwitchStyles is a Plugin adding the switch stylesheet to every page.
func SwitchStyles() stateful.Plugin {
	return func(a *stateful.App) {
		a.AppendToHead(h.StyleEl(h.Raw(switchCSS)))
	}
}

const switchCSS = `
.toggle-input{display:none}
.toggle-btn{box-sizing:initial;display:inline-block;outline:0;width:8em;height:4em;
position:relative;cursor:pointer;user-select:none;background:#fbfbfb;border-radius:4em;
padding:4px;transition:all .4s ease;border:2px solid #e8eae9}
.toggle-input:focus+.toggle-btn::after,.toggle-btn:active::after{box-sizing:initial;
box-shadow:0 0 0 2px rgba(0,0,0,.1),0 4px 0 rgba(0,0,0,.08),inset 0 0 0 3px #9c9c9c}
.toggle-btn::after{left:0;position:relative;display:block;content:'';width:50%;height:100%;
border-radius:4em;background:#fbfbfb;transition:left .3s cubic-bezier(.175,.885,.32,1.275),
padding .3s ease,margin .3s ease;box-shadow:0 0 0 1px rgba(0,0,0,.1),0 4px 0 rgba(0,0,0,.08)}
.toggle-btn.toggle-btn-on::after{left:50%}
.toggle-btn.toggle-btn-on{background:#86d993}
.toggle-btn.toggle-btn-on:active{box-shadow:none}
.toggle-btn.toggle-btn-on:active::after{margin-left:-1.6em}
.toggle-btn:active::after{padding-right:1.6em}
.toggle-input:disabled+.toggle-btn{opacity:.5;cursor:not-allowed}
`
