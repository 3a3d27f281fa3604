package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/reactive/pkg/host"
	"github.com/vango-dev/reactive/pkg/middleware"
	"github.com/vango-dev/reactive/pkg/reactive"
)

func newTestServer(t *testing.T) (*feed, *httptest.Server) {
	t.Helper()
	a, _ := testApp(t)
	middleware.Prometheus()

	f := newFeed(a.logger)
	srv := httptest.NewServer(a.routes(f))
	t.Cleanup(func() {
		f.Close()
		srv.Close()
	})
	return f, srv
}

func dialFeed(t *testing.T, f *feed, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for f.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("feed never registered the client")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestHealthz(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || string(body) != "OK" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "feed_clients") {
		t.Error("metrics output missing feed_clients gauge")
	}
}

func TestFeedStreamsHeartbeatChanges(t *testing.T) {
	f, srv := newTestServer(t)
	conn := dialFeed(t, f, srv)

	a, _ := testApp(t)
	ticks := reactive.NewSubject[int]()
	h := host.New(host.WithLogger(a.logger))
	fixture := h.Mount(NewHeartbeat(h.Injector(), ticks, a.logger, f.publisher("Heartbeat")))
	defer fixture.Destroy()

	fixture.DetectChanges()
	ticks.Next(0)
	fixture.DetectChanges()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var msg struct {
		Component string `json:"component"`
		Changes   map[string]struct {
			Previous any  `json:"previous"`
			Current  any  `json:"current"`
			First    bool `json:"first"`
		} `json:"changes"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}

	if msg.Component != "Heartbeat" {
		t.Errorf("component = %q", msg.Component)
	}
	count, ok := msg.Changes["Count"]
	if !ok {
		t.Fatalf("message has no Count change: %s", data)
	}
	if count.Current != float64(1) || !count.First {
		t.Errorf("Count change = %+v", count)
	}
}

func TestFeedCloseDisconnectsClients(t *testing.T) {
	f, srv := newTestServer(t)
	conn := dialFeed(t, f, srv)

	f.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("read error = %v, want going-away close", err)
	}
}

func TestFeedClientDisconnect(t *testing.T) {
	f, srv := newTestServer(t)
	conn := dialFeed(t, f, srv)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for f.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("feed kept the closed client")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
