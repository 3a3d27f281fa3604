package reactive

import (
	"fmt"
	"log/slog"
)

// ChangeDetector is the host capability that marks a view as needing to be
// checked again. Every tracked write invokes MarkForCheck.
type ChangeDetector interface {
	MarkForCheck()
}

// ChangeDetectorFunc adapts a function to ChangeDetector.
type ChangeDetectorFunc func()

// MarkForCheck implements ChangeDetector.
func (f ChangeDetectorFunc) MarkForCheck() { f() }

// Injector resolves host capabilities by key.
type Injector interface {
	Get(key any) (any, bool)
}

// InjectorFunc adapts a function to Injector.
type InjectorFunc func(key any) (any, bool)

// Get implements Injector.
func (f InjectorFunc) Get(key any) (any, bool) { return f(key) }

// capabilityKey identifies a capability resolved by Init.
type capabilityKey struct{ name string }

func (k capabilityKey) String() string { return "reactive." + k.name }

var (
	// ChangeDetectorKey resolves the required ChangeDetector.
	ChangeDetectorKey any = capabilityKey{"ChangeDetector"}

	// ObserverKey resolves an optional Observer notified of cell events.
	ObserverKey any = capabilityKey{"Observer"}

	// LoggerKey resolves an optional *slog.Logger. Defaults to slog.Default().
	LoggerKey any = capabilityKey{"Logger"}
)

// Observer is notified of cell lifecycle events. Implementations must be
// safe for concurrent use; writes from asynchronous sources arrive on the
// sources' goroutines.
type Observer interface {
	// OnInit is called once an instance has been patched.
	OnInit(component string, cells int)

	// OnWrite is called after every tracked write.
	OnWrite(component, property string)

	// OnBind is called when a cell gets subscribed to a source.
	OnBind(component, property string)

	// OnUnbind is called when a live subscription is cancelled by Unbind
	// or replaced by Bind.
	OnUnbind(component, property string)

	// OnDeinit is called after teardown with the number of subscriptions
	// it cancelled.
	OnDeinit(component string, cancelled int)
}

// nopObserver discards every event.
type nopObserver struct{}

func (nopObserver) OnInit(string, int)      {}
func (nopObserver) OnWrite(string, string)  {}
func (nopObserver) OnBind(string, string)   {}
func (nopObserver) OnUnbind(string, string) {}
func (nopObserver) OnDeinit(string, int)    {}

// capabilities bundles what Init resolved from the injector.
type capabilities struct {
	detector ChangeDetector
	observer Observer
	logger   *slog.Logger
}

// resolveCapabilities looks up the change detector (required), observer
// and logger (optional).
func resolveCapabilities(component string, injector Injector) (capabilities, error) {
	if injector == nil {
		return capabilities{}, errNoInjector(component)
	}

	raw, ok := injector.Get(ChangeDetectorKey)
	if !ok || raw == nil {
		return capabilities{}, errNoDetector(component, nil)
	}
	detector, ok := raw.(ChangeDetector)
	if !ok {
		return capabilities{}, errNoDetector(component, fmt.Errorf("got %T", raw))
	}

	caps := capabilities{
		detector: detector,
		observer: nopObserver{},
		logger:   slog.Default(),
	}
	if raw, ok := injector.Get(ObserverKey); ok {
		if o, ok := raw.(Observer); ok && o != nil {
			caps.observer = o
		}
	}
	if raw, ok := injector.Get(LoggerKey); ok {
		if l, ok := raw.(*slog.Logger); ok && l != nil {
			caps.logger = l
		}
	}
	return caps, nil
}
