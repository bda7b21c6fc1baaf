package toggle

import "fmt"

type check struct {
	ok      bool
	message string
}

func switchMessage(component, prop string, toUncontrolled bool) string {
	from, to := "uncontrolled", "controlled"
	if toUncontrolled {
		from, to = to, from
	}
	return fmt.Sprintf("`%s` is changing from %s to be %s. Components should not switch from "+
		"controlled to uncontrolled (or vice versa). Decide between using a controlled or "+
		"uncontrolled `%s` for the lifetime of the component. Check the `%s` prop.",
		component, from, to, component, prop)
}

func readOnlyMessage(component, prop, onChange, readOnly, initial string) string {
	return fmt.Sprintf("A `%s` prop was provided to `%s` without an `%s` handler. This will "+
		"result in a read-only `%s` value. If you want it to be mutable, use `%s`. "+
		"Otherwise, set either `%s` or `%s`.",
		prop, component, onChange, prop, initial, onChange, readOnly)
}
