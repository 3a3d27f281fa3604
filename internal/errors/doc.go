// Package errors provides coded, structured errors for the reactive runtime.
//
// Every failure the runtime can raise is registered under a short code
// ("R001", "R002", ...) that carries a category, a one-line message and a
// longer explanation. Call sites attach the component and property the
// error is about, plus an optional fix suggestion:
//
//	err := errors.New("R001").
//	    At("Counter", "Count").
//	    WithSuggestion("call reactive.Init before writing to the cell")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R001: Reactive state used before Init
//	//
//	//   Counter.Count
//	//
//	//   A state cell was written while its instance was not initialized ...
//	//
//	//   Hint: call reactive.Init before writing to the cell
//
// # Categories
//
//   - usage: the caller broke an ordering rule (write before init, no active read)
//   - invariant: internal inconsistency, signals a defect in the runtime
//   - contract: an operation was invoked outside its allowed dynamic extent
//   - capability: a required host capability could not be resolved
//   - config: invalid configuration
package errors
