package container

import (
	"context"
	"sync"

	"github.com/kbukum/injectkit/logger"
)

// Scope is a bounded caching unit for Scoped services. A fresh scope starts
// with an empty local cache and never inherits entries from its parent.
type Scope struct {
	id     string
	cache  *cache
	parent scopeRef
}

// ID returns the scope's opaque identifier.
func (s *Scope) ID() string { return s.id }

// scopeRef is a weak reference to an arena slot: it resolves only while the
// slot's generation still matches, so references to disposed or reused slots
// go dead instead of dangling.
type scopeRef struct {
	index int
	gen   uint64
}

// noScope is the zero reference; it never resolves.
var noScope = scopeRef{index: -1}

type scopeSlot struct {
	gen   uint64
	scope *Scope
}

// scopeArena owns every live scope of one container. Slots are reused
// through a free list; each allocation bumps the slot generation so stale
// references from abandoned scopes are detected at lookup.
type scopeArena struct {
	mu    sync.Mutex
	slots []scopeSlot
	free  []int
}

func newScopeArena() *scopeArena {
	return &scopeArena{}
}

func (a *scopeArena) alloc(s *Scope) scopeRef {
	a.mu.Lock()
	defer a.mu.Unlock()

	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, scopeSlot{})
		idx = len(a.slots) - 1
	}
	a.slots[idx].gen++
	a.slots[idx].scope = s
	return scopeRef{index: idx, gen: a.slots[idx].gen}
}

func (a *scopeArena) get(r scopeRef) (*Scope, bool) {
	if r.index < 0 {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if r.index >= len(a.slots) {
		return nil, false
	}
	slot := a.slots[r.index]
	if slot.scope == nil || slot.gen != r.gen {
		return nil, false
	}
	return slot.scope, true
}

// release frees the referenced slot and reports whether it was still live.
// A second release of the same reference is a no-op.
func (a *scopeArena) release(r scopeRef) (*Scope, bool) {
	if r.index < 0 {
		return nil, false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if r.index >= len(a.slots) {
		return nil, false
	}
	slot := &a.slots[r.index]
	if slot.scope == nil || slot.gen != r.gen {
		return nil, false
	}
	s := slot.scope
	slot.scope = nil
	a.free = append(a.free, r.index)
	return s, true
}

func (a *scopeArena) liveCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, slot := range a.slots {
		if slot.scope != nil {
			n++
		}
	}
	return n
}

// ScopeHandle controls disposal of a scope begun with BeginScope.
type ScopeHandle struct {
	container *Container
	cc        *callContext
	ref       scopeRef
	pos       int
	id        string
}

// ScopeID returns the identifier of the scope this handle controls.
func (h *ScopeHandle) ScopeID() string { return h.id }

// Dispose removes the scope from its call context's stack and tears down its
// local cache. Disposal is idempotent; a second call is a no-op.
func (h *ScopeHandle) Dispose() {
	if h == nil || h.container == nil {
		return
	}
	h.cc.removeAt(h.pos, h.ref)
	s, live := h.container.scopes.release(h.ref)
	if !live {
		return
	}
	s.cache.clear()
	h.container.metrics.scopeDisposed(context.Background())
	h.container.log.Debug("scope disposed", logger.Fields(logger.FieldScopeID, s.id))
}
