package h

import (
	gh "maragu.dev/gomponents/html"
)

func A(children ...H) H        { return gh.A(retype(children)...) }
func Br(children ...H) H       { return gh.Br(retype(children)...) }
func Button(children ...H) H   { return gh.Button(retype(children)...) }
func Div(children ...H) H      { return gh.Div(retype(children)...) }
func Form(children ...H) H     { return gh.Form(retype(children)...) }
func H1(children ...H) H       { return gh.H1(retype(children)...) }
func H2(children ...H) H       { return gh.H2(retype(children)...) }
func H3(children ...H) H       { return gh.H3(retype(children)...) }
func Hr(children ...H) H       { return gh.Hr(retype(children)...) }
func Input(children ...H) H    { return gh.Input(retype(children)...) }
func Label(children ...H) H    { return gh.Label(retype(children)...) }
func Li(children ...H) H       { return gh.Li(retype(children)...) }
func Main(children ...H) H     { return gh.Main(retype(children)...) }
func Meta(children ...H) H     { return gh.Meta(retype(children)...) }
func Nav(children ...H) H      { return gh.Nav(retype(children)...) }
func P(children ...H) H        { return gh.P(retype(children)...) }
func Pre(children ...H) H      { return gh.Pre(retype(children)...) }
func Script(children ...H) H   { return gh.Script(retype(children)...) }
func Span(children ...H) H     { return gh.Span(retype(children)...) }
func StyleEl(children ...H) H  { return gh.StyleEl(retype(children)...) }
func Textarea(children ...H) H { return gh.Textarea(retype(children)...) }
func Ul(children ...H) H       { return gh.Ul(retype(children)...) }
