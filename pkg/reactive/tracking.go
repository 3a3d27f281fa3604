package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the implicit per-goroutine state of the runtime.
type trackingContext struct {
	// active is the cell read last through Get. Consumed by the implicit
	// bind/unbind/reset forms.
	active activeCell

	// viewActions collects ViewUpdate callbacks while an Update callback
	// runs on this goroutine. nil outside of Update.
	viewActions *[]func()
}

func (c *trackingContext) empty() bool {
	return c.active == nil && c.viewActions == nil
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns the identifier of the current goroutine, parsed
// from the header of its stack trace ("goroutine <id> [...]").
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// loadTrackingContext returns the context of the current goroutine, or nil.
func loadTrackingContext() (*trackingContext, uint64) {
	gid := getGoroutineID()
	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext), gid
	}
	return nil, gid
}

// updateTrackingContext applies fn to a copy of the current goroutine's
// context and stores the copy. Stored contexts are never mutated, so other
// goroutines may inspect them. Contexts left empty are dropped.
func updateTrackingContext(fn func(ctx *trackingContext)) {
	cur, gid := loadTrackingContext()
	ctx := &trackingContext{}
	if cur != nil {
		*ctx = *cur
	}
	fn(ctx)
	if ctx.empty() {
		trackingContexts.Delete(gid)
	} else {
		trackingContexts.Store(gid, ctx)
	}
}

// setActiveRead records c as the cell read last on this goroutine.
func setActiveRead(c activeCell) {
	updateTrackingContext(func(ctx *trackingContext) {
		ctx.active = c
	})
}

// takeActiveRead returns and clears the cell read last on this goroutine.
func takeActiveRead() activeCell {
	var c activeCell
	updateTrackingContext(func(ctx *trackingContext) {
		c = ctx.active
		ctx.active = nil
	})
	return c
}

// clearActiveRead drops the active read if it points at c.
func clearActiveRead(c activeCell) {
	ctx, _ := loadTrackingContext()
	if ctx == nil || ctx.active != c {
		return
	}
	updateTrackingContext(func(ctx *trackingContext) {
		ctx.active = nil
	})
}

// dropActiveReads clears every goroutine's active read that points at a cell
// of rec. Contexts left empty are removed.
func dropActiveReads(rec *instanceRecord) {
	trackingContexts.Range(func(key, value any) bool {
		ctx := value.(*trackingContext)
		c, ok := ctx.active.(cell)
		if !ok || c.owner() != rec {
			return true
		}
		if ctx.viewActions == nil {
			trackingContexts.CompareAndDelete(key, value)
		} else {
			trackingContexts.CompareAndSwap(key, value, &trackingContext{viewActions: ctx.viewActions})
		}
		return true
	})
}

// ActiveProperty reports the component and property of the cell read last
// on this goroutine without consuming it.
func ActiveProperty() (component, property string, ok bool) {
	ctx, _ := loadTrackingContext()
	if ctx == nil || ctx.active == nil {
		return "", "", false
	}
	return ctx.active.componentName(), ctx.active.Name(), true
}

// pushViewActions installs a fresh view-action buffer for the duration of an
// Update callback and returns a function restoring the previous one together
// with the captured actions.
func pushViewActions() func() []func() {
	buf := &[]func(){}
	var prev *[]func()
	updateTrackingContext(func(ctx *trackingContext) {
		prev = ctx.viewActions
		ctx.viewActions = buf
	})
	return func() []func() {
		updateTrackingContext(func(ctx *trackingContext) {
			ctx.viewActions = prev
		})
		return *buf
	}
}

// appendViewAction adds fn to the active buffer. Returns false when no
// Update callback is executing on this goroutine.
func appendViewAction(fn func()) bool {
	ctx, _ := loadTrackingContext()
	if ctx == nil || ctx.viewActions == nil {
		return false
	}
	*ctx.viewActions = append(*ctx.viewActions, fn)
	return true
}
