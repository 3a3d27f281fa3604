package vtest

import (
	"fmt"
	"sync"
)

// Event is one observer notification.
type Event struct {
	Kind      string
	Component string
	Property  string
	Count     int
}

// String renders the event as "kind Component.Property".
func (e Event) String() string {
	if e.Property == "" {
		return fmt.Sprintf("%s %s", e.Kind, e.Component)
	}
	return fmt.Sprintf("%s %s.%s", e.Kind, e.Component, e.Property)
}

// Recorder is a reactive.Observer that records every event.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// OnInit implements reactive.Observer.
func (r *Recorder) OnInit(component string, cells int) {
	r.add(Event{Kind: "init", Component: component, Count: cells})
}

// OnWrite implements reactive.Observer.
func (r *Recorder) OnWrite(component, property string) {
	r.add(Event{Kind: "write", Component: component, Property: property})
}

// OnBind implements reactive.Observer.
func (r *Recorder) OnBind(component, property string) {
	r.add(Event{Kind: "bind", Component: component, Property: property})
}

// OnUnbind implements reactive.Observer.
func (r *Recorder) OnUnbind(component, property string) {
	r.add(Event{Kind: "unbind", Component: component, Property: property})
}

// OnDeinit implements reactive.Observer.
func (r *Recorder) OnDeinit(component string, cancelled int) {
	r.add(Event{Kind: "deinit", Component: component, Count: cancelled})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns the number of recorded events of kind.
func (r *Recorder) Count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops every recorded event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
