package realtime

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/edumentor/edumentor/core"
)

// Channel is a live duplex connection to a single client.
// Send is never called concurrently for the same Channel by the Registry.
// Channels are compared by identity, implementations should be pointers.
type Channel interface {
	Send(frame []byte) error
	Close() error
}

type entry struct {
	ch Channel
	mu sync.Mutex // serializes writes to ch
}

// Registry tracks the live connection of every online user and routes notifications to them.
// At most one Channel is registered per identity; delivery is best-effort.
type Registry struct {
	logger core.Logger

	mu     sync.RWMutex
	conns  map[string]*entry
	closed bool
}

func NewRegistry(logger core.Logger) *Registry {
	return &Registry{
		logger: logger,
		conns:  make(map[string]*entry),
	}
}

// Register maps identity to ch, replacing (and closing) any previously registered Channel.
func (r *Registry) Register(identity string, ch Channel) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = ch.Close()
		return
	}
	prev, replaced := r.conns[identity]
	if replaced && prev.ch == ch {
		// keep the entry so in-flight writes share its mutex
		r.mu.Unlock()
		return
	}
	r.conns[identity] = &entry{ch: ch}
	r.mu.Unlock()

	if replaced {
		r.logger.Debug(fmt.Sprintf("realtime: replacing connection of %s", identity))
		prev.mu.Lock()
		_ = prev.ch.Close()
		prev.mu.Unlock()
	}
}

// Unregister removes identity's mapping only if ch is the currently registered Channel.
func (r *Registry) Unregister(identity string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.conns[identity]; ok && e.ch == ch {
		delete(r.conns, identity)
	}
}

// SendTo serializes payload and writes it to identity's Channel.
// It reports whether the frame was written; offline recipients and write failures are only logged.
func (r *Registry) SendTo(identity string, payload interface{}) bool {
	r.mu.RLock()
	e, ok := r.conns[identity]
	r.mu.RUnlock()
	if !ok {
		r.logger.Debug(fmt.Sprintf("realtime: %s is not connected, dropping notification", identity))
		return false
	}

	frame, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error(fmt.Sprintf("realtime: encoding notification for %s: %v", identity, err), err)
		return false
	}
	return r.write(identity, e, frame)
}

// Broadcast writes payload to every Channel registered at call time and returns the number of
// successful writes. A failing Channel does not prevent delivery to the others.
func (r *Registry) Broadcast(payload interface{}) int {
	frame, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error(fmt.Sprintf("realtime: encoding broadcast: %v", err), err)
		return 0
	}

	r.mu.RLock()
	targets := make(map[string]*entry, len(r.conns))
	for identity, e := range r.conns {
		targets[identity] = e
	}
	r.mu.RUnlock()

	var delivered int
	for identity, e := range targets {
		if r.write(identity, e, frame) {
			delivered++
		}
	}
	return delivered
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Close closes every registered Channel. Channels registered afterwards are closed right away.
func (r *Registry) Close() {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.conns))
	for _, e := range r.conns {
		entries = append(entries, e)
	}
	r.conns = make(map[string]*entry)
	r.closed = true
	r.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
		_ = e.ch.Close()
		e.mu.Unlock()
	}
}

// write must not be called with r.mu held: a slow client only blocks its own entry.
func (r *Registry) write(identity string, e *entry, frame []byte) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ch.Send(frame); err != nil {
		// the entry stays: the connection's read loop unregisters it on disconnect
		r.logger.Warn(fmt.Sprintf("realtime: writing to %s: %v", identity, err), err)
		return false
	}
	return true
}
