package host

import "github.com/vango-dev/reactive/pkg/reactive"

// ChangesHook receives changes of externally bound inputs.
type ChangesHook interface {
	OnChanges(changes reactive.Changes)
}

// InitHook runs once, on the first detection cycle.
type InitHook interface {
	OnInit() error
}

// CheckHook runs on every detection cycle.
type CheckHook interface {
	DoCheck() error
}

// ViewCheckedHook runs after the view has been rendered.
type ViewCheckedHook interface {
	AfterViewChecked()
}

// DestroyHook runs when the component is unmounted.
type DestroyHook interface {
	OnDestroy()
}

// Renderer produces the textual view of a component.
type Renderer interface {
	Render() string
}

// Component is the full hook set implemented by reactive.Reactive.
type Component interface {
	ChangesHook
	InitHook
	CheckHook
	ViewCheckedHook
	DestroyHook
}

var _ Component = (*reactive.Reactive)(nil)
var _ reactive.ChangeDetector = (*Detector)(nil)
var _ reactive.Injector = (*Registry)(nil)
