// Package vtest provides testing helpers for reactive components.
//
// The vtest package reduces boilerplate when testing components that embed
// reactive.Reactive by providing a fluent host builder, mount helpers that
// tear components down with the test, change-set and view assertions, a
// recording observer and a controllable source.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    c, f := vtest.Mount(t, vtest.NewHost(t).Build(), NewCounter)
//
//	    vtest.Detect(t, f)
//	    vtest.ExpectView(t, f, "count: 0")
//
//	    c.Count.Set(2)
//	    vtest.Detect(t, f)
//	    vtest.ExpectViewContains(t, f, "2")
//	}
//
// # Fluent Host Builder
//
//	h := vtest.NewHost(t).
//	    WithObserver(rec).
//	    WithProvider(apiKey, fakeAPI).
//	    Build()
//
// The built host logs through t.Log, so debug output of the runtime appears
// next to the failing test.
//
// # Sources
//
// Source is a synchronous source that counts subscriptions:
//
//	src := vtest.NewSource[int]()
//	reactive.Bind(c.Count, src)
//	src.Emit(3)
//	vtest.ExpectSubscriptions(t, src, 1, 0)
package vtest
