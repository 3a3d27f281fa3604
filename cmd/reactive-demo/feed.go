package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/reactive/pkg/middleware"
	"github.com/vango-dev/reactive/pkg/reactive"
)

const (
	feedBuffer       = 16
	feedWriteTimeout = 10 * time.Second
)

// changeMessage is the JSON form of one change set sent to feed clients.
type changeMessage struct {
	Component string                `json:"component"`
	Changes   map[string]changeJSON `json:"changes"`
}

type changeJSON struct {
	Previous any  `json:"previous,omitempty"`
	Current  any  `json:"current"`
	First    bool `json:"first"`
}

// feed broadcasts change sets to WebSocket clients.
type feed struct {
	subject  *reactive.Subject[[]byte]
	upgrader websocket.Upgrader
	logger   *slog.Logger

	closed    chan struct{}
	closeOnce sync.Once
}

func newFeed(logger *slog.Logger) *feed {
	return &feed{
		subject: reactive.NewSubject[[]byte](),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
		closed: make(chan struct{}),
	}
}

// publisher returns a callback sending the change sets of component.
func (f *feed) publisher(component string) func(reactive.Changes) {
	return func(changes reactive.Changes) {
		msg := changeMessage{
			Component: component,
			Changes:   make(map[string]changeJSON, len(changes)),
		}
		for _, name := range changes.Names() {
			c := changes[name]
			msg.Changes[name] = changeJSON{
				Previous: c.PreviousValue,
				Current:  c.CurrentValue,
				First:    c.FirstChange,
			}
		}

		data, err := json.Marshal(msg)
		if err != nil {
			f.logger.Error("encode change set", "component", component, "error", err)
			return
		}
		f.subject.Next(data)
	}
}

// ServeHTTP upgrades the request and streams change sets until the client
// goes away or the feed is closed. Slow clients miss messages rather than
// blocking publishers.
func (f *feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		f.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	middleware.RecordFeedConnect()
	defer middleware.RecordFeedDisconnect()

	out := make(chan []byte, feedBuffer)
	sub := f.subject.Subscribe(func(data []byte) {
		select {
		case out <- data:
		default:
		}
	})
	defer sub.Unsubscribe()

	// Reads only detect the client closing.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case data := <-out:
			conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				f.logger.Debug("feed write failed", "error", err)
				return
			}
		case <-gone:
			return
		case <-f.closed:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}

// Clients returns the number of connected clients.
func (f *feed) Clients() int {
	return f.subject.Observed()
}

// Close disconnects every client. Later publications are dropped.
func (f *feed) Close() {
	f.closeOnce.Do(func() {
		close(f.closed)
		f.subject.Complete()
	})
}
