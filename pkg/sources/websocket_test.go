package sources

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type quote struct {
	Symbol string  `json:"symbol" validate:"required"`
	Price  float64 `json:"price"`
}

// quoteServer writes messages to every client and then closes normally.
func quoteServer(t *testing.T, messages ...string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.SetReadDeadline(time.Now().Add(time.Second))
		conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocketDecodesMessages(t *testing.T) {
	srv := quoteServer(t,
		`{"symbol":"ACME","price":1.5}`,
		`{"symbol":"ACME","price":2}`,
	)

	out := make(chan quote, 8)
	sub := WebSocket[quote](wsURL(srv)).Subscribe(func(q quote) { out <- q })
	defer sub.Unsubscribe()

	if got := receive(t, out); got.Price != 1.5 {
		t.Errorf("first = %+v", got)
	}
	if got := receive(t, out); got.Price != 2 {
		t.Errorf("second = %+v", got)
	}
}

func TestWebSocketSkipsBadMessages(t *testing.T) {
	srv := quoteServer(t,
		`{"symbol":`,
		`{"price":3}`,
		`{"symbol":"ACME","price":4}`,
	)

	onError, errs := errorSink()
	out := make(chan quote, 8)
	sub := WebSocket[quote](wsURL(srv), onError, WithFormat(FormatJSON)).Subscribe(func(q quote) { out <- q })
	defer sub.Unsubscribe()

	if got := receive(t, out); got.Price != 4 {
		t.Errorf("value = %+v, want price 4", got)
	}
	receive(t, errs)
	if err := receive(t, errs); !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("second error = %v", err)
	}
}

func TestWebSocketNormalCloseIsSilent(t *testing.T) {
	srv := quoteServer(t)

	onError, errs := errorSink()
	sub := WebSocket[quote](wsURL(srv), onError).Subscribe(func(quote) {})
	defer sub.Unsubscribe()

	expectNone(t, errs, 200*time.Millisecond)
}

func TestWebSocketDialError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	onError, errs := errorSink()
	sub := WebSocket[quote](wsURL(srv), onError).Subscribe(func(quote) {})
	defer sub.Unsubscribe()

	if err := receive(t, errs); err == nil {
		t.Error("expected a dial error")
	}
}

func TestWebSocketReconnects(t *testing.T) {
	var connections atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		n := connections.Add(1)
		conn.WriteJSON(quote{Symbol: "ACME", Price: float64(n)})
		// Drop the connection without a close frame.
		conn.Close()
	}))
	defer srv.Close()

	onError, errs := errorSink()
	out := make(chan quote, 8)
	sub := WebSocket[quote](wsURL(srv), onError, WithReconnect(10*time.Millisecond)).Subscribe(func(q quote) { out <- q })
	defer sub.Unsubscribe()

	if got := receive(t, out); got.Price != 1 {
		t.Errorf("first = %+v", got)
	}
	receive(t, errs)
	if got := receive(t, out); got.Price != 2 {
		t.Errorf("after reconnect = %+v", got)
	}
}
