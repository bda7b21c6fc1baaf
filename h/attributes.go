package h

import (
	gh "maragu.dev/gomponents/html"
)

func Checked() H  { return gh.Checked() }
func Disabled() H { return gh.Disabled() }
func ReadOnly() H { return gh.ReadOnly() }

func Class(v string) H       { return gh.Class(v) }
func For(v string) H         { return gh.For(v) }
func Href(v string) H        { return gh.Href(v) }
func ID(v string) H          { return gh.ID(v) }
func Name(v string) H        { return gh.Name(v) }
func Placeholder(v string) H { return gh.Placeholder(v) }
func Src(v string) H         { return gh.Src(v) }
func Style(v string) H       { return gh.Style(v) }
func Type(v string) H        { return gh.Type(v) }
func Value(v string) H       { return gh.Value(v) }

// Aria creates an aria-* attribute, e.g. Aria("pressed", "true").
func Aria(name, v string) H { return gh.Aria(name, v) }

// Data creates a data-* attribute, e.g. Data("on:click", "...").
func Data(name, v string) H { return gh.Data(name, v) }
