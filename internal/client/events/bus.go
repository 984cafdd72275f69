// Package events implements the error-listener registry of the client.
//
// External collaborators (screens, widgets, diagnostics) subscribe to be told
// about every classified request failure. Listeners are invoked in
// subscription order, and each one runs in isolation: a panicking listener is
// recovered and discarded so the remaining listeners still run and the caller
// above Notify is never interrupted.
package events

import (
	"context"
	"sync"

	"github.com/riceguard/riceguard/internal/logging"
)

// Context carries the request-level details passed to listeners alongside
// the error itself.
type Context struct {
	URL     string
	Status  int
	RawBody []byte
	// Parsed holds the response body decoded as JSON, or nil if the body
	// was empty or not valid JSON.
	Parsed map[string]any
}

// Listener is a registered callback. The error argument is the classified
// request failure (an *apierr.Record in practice).
type Listener func(err error, evctx Context)

// Subscription identifies a registered listener so it can be removed later.
type Subscription struct {
	id int
}

type entry struct {
	id int
	fn Listener
}

// Bus is an ordered fan-out registry of error listeners.
// The zero value is not usable; construct with NewBus.
type Bus struct {
	mu      sync.Mutex
	nextID  int
	entries []entry
	log     logging.Logger
}

// NewBus returns an empty listener registry.
func NewBus(log logging.Logger) *Bus {
	return &Bus{log: log}
}

// Subscribe registers a listener and returns its subscription handle.
// Listeners are invoked in subscription order.
func (b *Bus) Subscribe(l Listener) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.entries = append(b.entries, entry{id: b.nextID, fn: l})
	return &Subscription{id: b.nextID}
}

// Unsubscribe removes a previously registered listener. Unknown or already
// removed subscriptions are ignored.
func (b *Bus) Unsubscribe(s *Subscription) {
	if s == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, e := range b.entries {
		if e.id == s.id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// Len reports the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Notify invokes every listener with the given error and context.
// A panic inside one listener never prevents delivery to the rest.
func (b *Bus) Notify(ctx context.Context, err error, evctx Context) {
	b.mu.Lock()
	snapshot := make([]entry, len(b.entries))
	copy(snapshot, b.entries)
	b.mu.Unlock()

	for _, e := range snapshot {
		b.invoke(ctx, e, err, evctx)
	}
}

func (b *Bus) invoke(ctx context.Context, e entry, err error, evctx Context) {
	defer func() {
		if p := recover(); p != nil {
			if b.log != nil {
				b.log.Warn(ctx, "error listener panicked", "panic", p, "url", evctx.URL)
			}
		}
	}()
	e.fn(err, evctx)
}
