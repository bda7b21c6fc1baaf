package toggle

import "maps"

// Attribute names set by the prop getters.
const (
	AttrAriaPressed = "aria-pressed"
	AttrOn          = "on"
	AttrDisabled    = "disabled"
)

// Props is the interaction binding a prop getter hands to a view: plain
// attributes plus a click handler.
type Props struct {
	Attrs   map[string]any
	OnClick func()
}

// Click runs the click handler, if any.
func (p Props) Click() {
	if p.OnClick != nil {
		p.OnClick()
	}
}

// Bool returns the attribute as a bool, false when missing or not a bool.
func (p Props) Bool(name string) bool {
	v, _ := p.Attrs[name].(bool)
	return v
}

// String returns the attribute as a string, "" when missing or not a string.
func (p Props) String(name string) string {
	v, _ := p.Attrs[name].(string)
	return v
}

// CallAll returns a handler that calls every non-nil fn in order.
func CallAll(fns ...func()) func() {
	return func() {
		for _, fn := range fns {
			if fn != nil {
				fn()
			}
		}
	}
}

// Merge overlays overrides on defaults. Attributes from overrides win. The
// resulting click handler runs the override handler first, then the default.
func Merge(defaults, overrides Props) Props {
	attrs := make(map[string]any, len(defaults.Attrs)+len(overrides.Attrs))
	maps.Copy(attrs, defaults.Attrs)
	maps.Copy(attrs, overrides.Attrs)
	return Props{
		Attrs:   attrs,
		OnClick: CallAll(overrides.OnClick, defaults.OnClick),
	}
}
