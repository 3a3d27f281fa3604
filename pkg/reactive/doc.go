// Package reactive turns plain struct fields into observed, bindable,
// resettable state cells and feeds their change history into a host
// framework's change-detection hooks.
//
// # Declaring state
//
// A component declares exported fields of type *State[T]. Until the
// instance is initialized each field holds a token carrying the default
// value and, optionally, a pending source:
//
//	type Counter struct {
//	    reactive.Reactive
//
//	    Count *reactive.State[int]
//	    Step  *reactive.State[int] `reactive:"step"`
//	}
//
//	c := &Counter{Count: reactive.NewState(0), Step: reactive.NewState(1)}
//	reactive.Bind(c.Step, stepSource) // attached to the token, subscribed by Init
//
// Init consumes the tokens in place. From then on Get and Set run the
// tracked accessor path: every Set records previous/current value, bumps
// the change count, flags a pending change and marks the host view dirty.
//
// # Binding
//
// Bind, Unbind and Reset take the cell handle. The implicit form operates
// on the cell read last by Get on the calling goroutine:
//
//	_ = c.Count.Get()
//	reactive.ResetActive()
//
// # Change sets
//
// ComputeChanges collapses pending changes into a Changes map keyed by
// property name. Each pending flag is consumed exactly once.
//
// # Lifecycle
//
// Embedding Reactive and calling Setup wires a component into the host
// hooks (OnChanges, OnInit, DoCheck, AfterViewChecked, OnDestroy) and
// invokes the component's Update method with the merged change set of
// every cycle. ViewUpdate defers a callback until after the view has been
// checked.
//
// # Thread Safety
//
// Cells and records are guarded so that sources may emit from other
// goroutines. The active-read context and the view-action buffer are
// per-goroutine, so a Get followed by BindActive must happen on the same
// goroutine.
package reactive
