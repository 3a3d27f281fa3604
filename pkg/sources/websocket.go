package sources

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// WebSocket returns a source decoding every message read from the
// WebSocket at url into T.
//
// Each subscription dials its own connection. When the connection fails
// the subscription stops, unless WithReconnect is set. A normal close by
// the server stops the subscription without reporting an error.
func WebSocket[T any](url string, opts ...Option) reactive.Source[T] {
	o := applyOptions(opts)
	return reactive.SourceFunc[T](func(next func(T)) reactive.Subscription {
		p := newProducer("websocket", url, o)
		return p.start(func(ctx context.Context) {
			for {
				err := readWebSocket(ctx, p, url, next)
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					p.fail(ctx, SourceError, err)
				}
				if err == nil || o.reconnect <= 0 {
					return
				}

				timer := o.clock.NewTimer(o.reconnect)
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case <-timer.C():
				}
			}
		})
	})
}

// readWebSocket serves one connection. It returns nil when the server
// closed the connection normally or ctx was cancelled.
func readWebSocket[T any](ctx context.Context, p *producer, url string, next func(T)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, p.opts.header)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return nil
			}
			return err
		}

		v, err := decode[T](data, p.opts.format)
		if err != nil {
			p.fail(ctx, SourceDecodeFailed, err)
			continue
		}
		if !deliver(ctx, p, next, v) {
			return nil
		}
	}
}
