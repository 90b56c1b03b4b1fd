package container

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/injectkit/descriptor"
	"github.com/kbukum/injectkit/errors"
	"github.com/kbukum/injectkit/logger"
)

// Deferred is the factory handed to a constructor in place of an eagerly
// resolved dependency. Invoking it performs the resolution at call time,
// against whatever scope is active on the supplied context — a Singleton can
// safely hold a Deferred to a Scoped service without capturing a stale scope.
type Deferred func(ctx context.Context) (any, error)

func (c *Container) resolveDescriptor(ctx context.Context, sd descriptor.ServiceDescriptor) (any, error) {
	switch sd.Lifetime {
	case descriptor.Singleton:
		return c.cached(ctx, sd, c.singletons)
	case descriptor.Scoped:
		return c.cached(ctx, sd, c.activeScope(ctx).cache)
	default:
		return c.construct(ctx, sd)
	}
}

// cached implements the get-or-create protocol: optimistic read, construction
// outside any lock, then atomic get-or-store. Under a race exactly one
// constructed instance is observed by every caller and losers are discarded.
// A failed construction stores nothing, so a later resolve retries cleanly.
func (c *Container) cached(ctx context.Context, sd descriptor.ServiceDescriptor, store *cache) (any, error) {
	key := sd.CacheKey()
	if v, ok := store.get(key); ok {
		c.metrics.recordCacheHit(ctx, sd.Contract.Name())
		return v, nil
	}
	v, err := c.construct(ctx, sd)
	if err != nil {
		return nil, err
	}
	return store.getOrStore(key, v), nil
}

func (c *Container) construct(ctx context.Context, sd descriptor.ServiceDescriptor) (v any, err error) {
	fn, ok := c.factories[sd.Implementation.Key()]
	if !ok {
		// New validates factories up front; this guards hand-built containers.
		return nil, errors.MissingFactory(sd.Implementation.Name())
	}

	start := time.Now()
	ctx, span := c.startConstructSpan(ctx, sd)

	deps := make([]any, len(sd.Dependencies))
	for i, d := range sd.Dependencies {
		if d.Deferred {
			deps[i] = c.deferredFor(d)
			continue
		}
		dv, derr := c.resolveDependency(ctx, d)
		if derr != nil {
			c.endConstructSpan(span, derr)
			return nil, derr
		}
		deps[i] = dv
	}

	v, err = fn(ctx, deps)
	c.endConstructSpan(span, err)
	c.metrics.recordConstruction(ctx, sd.Implementation.Name(), time.Since(start), err == nil)
	if err != nil {
		// Propagated verbatim; nothing is cached and nothing is retried here.
		c.log.Debug("construction failed", logger.Fields(
			logger.FieldImplementation, sd.Implementation.Name(),
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	c.log.Debug("constructed", logger.Fields(
		logger.FieldImplementation, sd.Implementation.Name(),
		logger.FieldLifetime, sd.Lifetime.String(),
	))
	return v, nil
}

// deferredFor builds the call-time factory for a deferred dependency. The
// closure captures the dependency slot, not a scope.
func (c *Container) deferredFor(d descriptor.DependencyDescriptor) Deferred {
	return func(ctx context.Context) (any, error) {
		return c.resolveDependency(ctx, d)
	}
}

// resolveDependency satisfies one constructor parameter. The plan validated
// every dependency at build time, so the error paths guard hand-built plans
// only.
func (c *Container) resolveDependency(ctx context.Context, d descriptor.DependencyDescriptor) (any, error) {
	g, ok := c.plan.Group(d.Contract)
	if !ok {
		return nil, errors.MissingProvider("dependency", d.Contract.Name(), d.ServiceID)
	}
	if d.ServiceID != "" {
		sd, ok := g.ByID(d.ServiceID)
		if !ok {
			return nil, errors.MissingProvider("dependency", d.Contract.Name(), d.ServiceID)
		}
		return c.resolveDescriptor(ctx, sd)
	}
	sd, ok := g.Single()
	if !ok {
		return nil, errors.AmbiguousDependency("dependency", d.Contract.Name(), len(g.Unnamed))
	}
	return c.resolveDescriptor(ctx, sd)
}

// --- Typed helpers ---

// Resolve resolves the contract's sole unnamed provider as T. The boolean is
// false when no provider satisfies unqualified resolution.
func Resolve[T any](ctx context.Context, c *Container, contract descriptor.TypeDescriptor) (T, bool, error) {
	var zero T
	v, err := c.Resolve(ctx, contract)
	if err != nil {
		return zero, false, err
	}
	if v == nil {
		return zero, false, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, fmt.Errorf("container: %s resolved to %T, expected %T", contract, v, zero)
	}
	return t, true, nil
}

// ResolveMany resolves every unnamed provider of the contract as T, in
// discovery order.
func ResolveMany[T any](ctx context.Context, c *Container, contract descriptor.TypeDescriptor) ([]T, error) {
	vs, err := c.ResolveMany(ctx, contract)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(vs))
	for _, v := range vs {
		t, ok := v.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("container: %s provider is %T, expected %T", contract, v, zero)
		}
		out = append(out, t)
	}
	return out, nil
}

// ResolveNamed resolves the provider registered under serviceID as T. The
// boolean is false when the id is unknown.
func ResolveNamed[T any](ctx context.Context, c *Container, contract descriptor.TypeDescriptor, serviceID string) (T, bool, error) {
	var zero T
	v, err := c.ResolveNamed(ctx, contract, serviceID)
	if err != nil {
		return zero, false, err
	}
	if v == nil {
		return zero, false, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, fmt.Errorf("container: %s#%s resolved to %T, expected %T", contract, serviceID, v, zero)
	}
	return t, true, nil
}

// MustResolve resolves like Resolve and panics when the service is missing
// or construction fails.
func MustResolve[T any](ctx context.Context, c *Container, contract descriptor.TypeDescriptor) T {
	t, ok, err := Resolve[T](ctx, c, contract)
	if err != nil {
		panic(fmt.Sprintf("container: failed to resolve %s: %v", contract, err))
	}
	if !ok {
		panic(fmt.Sprintf("container: no provider for %s", contract))
	}
	return t
}
