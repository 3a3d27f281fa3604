package sources

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// File returns a source decoding the file at path into T.
//
// The current contents are emitted on Subscribe, then again whenever the
// file is written, created or renamed into place. The parent directory is
// watched so editors that replace the file atomically keep working.
// Empty and unchanged contents are skipped.
func File[T any](path string, opts ...Option) reactive.Source[T] {
	o := applyOptions(opts)
	path = filepath.Clean(path)
	return reactive.SourceFunc[T](func(next func(T)) reactive.Subscription {
		p := newProducer("file", path, o)

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			p.fail(context.Background(), SourceError, fmt.Errorf("failed to create fsnotify watcher: %w", err))
			return reactive.NewSubscription(func() {})
		}
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			watcher.Close()
			p.fail(context.Background(), SourceError, fmt.Errorf("failed to watch file %s: %w", path, err))
			return reactive.NewSubscription(func() {})
		}

		return p.start(func(ctx context.Context) {
			defer watcher.Close()

			var last []byte
			emit := func() bool {
				data, err := os.ReadFile(path)
				if err != nil {
					if !os.IsNotExist(err) {
						p.fail(ctx, SourceError, err)
					}
					return true
				}
				if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(data, last) {
					return true
				}
				last = data
				v, err := decode[T](data, o.format)
				if err != nil {
					p.fail(ctx, SourceDecodeFailed, err)
					return true
				}
				return deliver(ctx, p, next, v)
			}

			if !emit() {
				return
			}

			for {
				select {
				case <-ctx.Done():
					return

				case event, ok := <-watcher.Events:
					if !ok {
						return
					}
					if filepath.Clean(event.Name) != path {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					if !emit() {
						return
					}

				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					p.fail(ctx, SourceError, err)
				}
			}
		})
	})
}
