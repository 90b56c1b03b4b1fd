package container

import (
	"context"
	"sync"
)

type ctxKey struct{}

// callContext is the per-logical-call-context stack of scopes that context
// began. It travels inside a context.Context, so goroutines handed the same
// context share one stack while unrelated contexts stay isolated.
//
// The mutex guards only O(1) stack bookkeeping; it is never held across
// service construction.
type callContext struct {
	mu    sync.Mutex
	stack []scopeRef
}

// WithCallContext returns a context carrying a fresh scope stack. When the
// context already carries one, it is returned unchanged.
func WithCallContext(ctx context.Context) context.Context {
	if _, ok := callContextFrom(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, &callContext{})
}

func callContextFrom(ctx context.Context) (*callContext, bool) {
	cc, ok := ctx.Value(ctxKey{}).(*callContext)
	return cc, ok
}

// push appends a reference and returns its tracked stack position, so
// disposal can remove the exact entry without scanning.
func (cc *callContext) push(r scopeRef) int {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.stack = append(cc.stack, r)
	return len(cc.stack) - 1
}

// removeAt tombstones the entry at pos when it still holds r. Removing an
// already-removed entry is a no-op.
func (cc *callContext) removeAt(pos int, r scopeRef) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if pos < 0 || pos >= len(cc.stack) || cc.stack[pos] != r {
		return false
	}
	cc.stack[pos] = noScope
	cc.trimLocked()
	return true
}

// active returns the most recently begun scope that is still alive, pruning
// dead references encountered on the way down.
func (cc *callContext) active(a *scopeArena) (scopeRef, *Scope, bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	for i := len(cc.stack) - 1; i >= 0; i-- {
		r := cc.stack[i]
		if r == noScope {
			continue
		}
		if s, ok := a.get(r); ok {
			return r, s, true
		}
		cc.stack[i] = noScope
	}
	cc.trimLocked()
	return noScope, nil, false
}

func (cc *callContext) depth() int {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return len(cc.stack)
}

func (cc *callContext) trimLocked() {
	for n := len(cc.stack); n > 0 && cc.stack[n-1] == noScope; n = len(cc.stack) {
		cc.stack = cc.stack[:n-1]
	}
}
