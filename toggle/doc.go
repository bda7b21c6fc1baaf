// Package toggle implements a boolean toggle whose transition function can be
// swapped by the caller (state reducer) and whose value can be owned by a
// parent (control props).
//
// A Machine dispatches every action through its reducer. When uncontrolled
// the reducer's result becomes the new internal state; when controlled the
// exposed value always comes from the caller and the result is only reported
// through OnChange. OnChange fires for every dispatch in both modes.
//
//	m := toggle.New(toggle.Options{
//		Controls: toggle.Controls{
//			Reducer: toggle.ReducerFunc(func(s toggle.State, a toggle.Action) toggle.State {
//				if _, ok := a.(toggle.ToggleAction); ok && clicks >= 4 {
//					return s
//				}
//				return toggle.Reduce(s, a)
//			}),
//		},
//	})
//	m.Toggle()
package toggle
