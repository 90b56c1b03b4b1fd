package container

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/injectkit/descriptor"
	"github.com/kbukum/injectkit/errors"
	"github.com/kbukum/injectkit/logger"
	"github.com/kbukum/injectkit/plan"
)

// Constructor builds one implementation instance. deps holds the resolved
// constructor arguments in declaration order; deferred parameters arrive as
// Deferred values.
type Constructor func(ctx context.Context, deps []any) (any, error)

// Factories maps implementation types to their constructors. Generated code
// registers one constructor per exported implementation.
type Factories map[string]Constructor

// NewFactories creates an empty factory registry.
func NewFactories() Factories {
	return make(Factories)
}

// Add registers a constructor for an implementation type name and returns
// the registry for chaining. A later registration for the same type wins.
func (f Factories) Add(typeName string, fn Constructor) Factories {
	f[descriptor.NewType(typeName).Key()] = fn
	return f
}

// Container resolves service instances against a precomputed plan. It owns
// the process-wide singleton cache, the root scope, and the arena tracking
// every scope begun through it.
type Container struct {
	plan       *plan.Plan
	factories  Factories
	singletons *cache
	scopes     *scopeArena
	root       *Scope
	log        *logger.Logger
	meter      metric.Meter
	metrics    *metrics
	tracer     trace.Tracer
}

// Option configures a container.
type Option func(*Container)

// WithLogger sets the container's logger. Defaults to a no-op logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMeter enables resolution metrics on the given meter.
func WithMeter(m metric.Meter) Option {
	return func(c *Container) { c.meter = m }
}

// WithTracer enables a span around each service construction.
func WithTracer(t trace.Tracer) Option {
	return func(c *Container) { c.tracer = t }
}

// New assembles a container from a resolution plan and the constructors for
// its implementations. Every planned provider must have a registered
// constructor; missing ones are reported together as one aggregated error.
func New(p *plan.Plan, factories Factories, opts ...Option) (*Container, error) {
	if p == nil {
		return nil, errors.InvalidPlan("nil resolution plan")
	}

	c := &Container{
		plan:       p,
		factories:  factories,
		singletons: newCache(),
		scopes:     newScopeArena(),
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	agg := errors.NewAggregate()
	checked := make(map[string]bool)
	for _, g := range p.Groups() {
		for _, sd := range g.Unnamed {
			c.checkFactory(sd, checked, agg)
		}
		for _, sd := range g.Named {
			c.checkFactory(sd, checked, agg)
		}
	}
	if err := agg.ErrOrNil(); err != nil {
		return nil, err
	}

	if c.meter != nil {
		m, err := newMetrics(c.meter)
		if err != nil {
			return nil, err
		}
		c.metrics = m
	}

	c.root = &Scope{id: uuid.NewString(), cache: newCache(), parent: noScope}
	c.log.Debug("container assembled", logger.Fields(
		logger.FieldCount, len(p.Groups()),
		logger.FieldScopeID, c.root.id,
	))
	return c, nil
}

func (c *Container) checkFactory(sd descriptor.ServiceDescriptor, checked map[string]bool, agg *errors.Aggregate) {
	key := sd.Implementation.Key()
	if checked[key] {
		return
	}
	checked[key] = true
	if _, ok := c.factories[key]; !ok {
		agg.Add(errors.MissingFactory(sd.Implementation.Name()))
	}
}

// Resolve returns the instance of the contract's sole unnamed provider, or
// (nil, nil) when the contract is unregistered, only has named providers, or
// has several unnamed providers. Callers may probe speculatively for
// optional services.
func (c *Container) Resolve(ctx context.Context, contract descriptor.TypeDescriptor) (any, error) {
	g, ok := c.plan.Group(contract)
	if !ok {
		c.metrics.recordResolution(ctx, contract.Name(), resolutionMiss)
		return nil, nil
	}
	sd, ok := g.Single()
	if !ok {
		c.metrics.recordResolution(ctx, contract.Name(), resolutionMiss)
		return nil, nil
	}
	v, err := c.resolveDescriptor(ctx, sd)
	c.metrics.recordResolution(ctx, contract.Name(), resolutionOutcome(err))
	return v, err
}

// ResolveMany returns one instance per unnamed provider of the contract, in
// discovery order. A Single-mode contract yields a one-element slice; an
// unregistered or named-only contract yields an empty slice.
func (c *Container) ResolveMany(ctx context.Context, contract descriptor.TypeDescriptor) ([]any, error) {
	g, ok := c.plan.Group(contract)
	if !ok {
		c.metrics.recordResolution(ctx, contract.Name(), resolutionMiss)
		return nil, nil
	}
	out := make([]any, 0, len(g.Unnamed))
	for _, sd := range g.Unnamed {
		v, err := c.resolveDescriptor(ctx, sd)
		if err != nil {
			c.metrics.recordResolution(ctx, contract.Name(), resolutionError)
			return nil, err
		}
		out = append(out, v)
	}
	c.metrics.recordResolution(ctx, contract.Name(), resolutionHit)
	return out, nil
}

// ResolveNamed returns the instance of the provider registered under the
// given service id, or (nil, nil) when no such provider exists.
func (c *Container) ResolveNamed(ctx context.Context, contract descriptor.TypeDescriptor, serviceID string) (any, error) {
	g, ok := c.plan.Group(contract)
	if !ok {
		c.metrics.recordResolution(ctx, contract.Name(), resolutionMiss)
		return nil, nil
	}
	sd, ok := g.ByID(serviceID)
	if !ok {
		c.metrics.recordResolution(ctx, contract.Name(), resolutionMiss)
		return nil, nil
	}
	v, err := c.resolveDescriptor(ctx, sd)
	c.metrics.recordResolution(ctx, contract.Name(), resolutionOutcome(err))
	return v, err
}

// BeginScope pushes a fresh scope onto the context's scope stack and returns
// the (possibly derived) context together with a disposal handle. The new
// scope starts with an empty local cache and becomes the active scope for
// every Scoped resolution made through the returned context until it is
// disposed or a nested scope is begun.
func (c *Container) BeginScope(ctx context.Context) (context.Context, *ScopeHandle) {
	cc, ok := callContextFrom(ctx)
	if !ok {
		cc = &callContext{}
		ctx = context.WithValue(ctx, ctxKey{}, cc)
	}

	s := &Scope{id: uuid.NewString(), cache: newCache(), parent: noScope}
	if parentRef, _, ok := cc.active(c.scopes); ok {
		s.parent = parentRef
	}
	ref := c.scopes.alloc(s)
	pos := cc.push(ref)

	c.metrics.scopeBegun(ctx)
	c.log.Debug("scope begun", logger.Fields(logger.FieldScopeID, s.id))
	return ctx, &ScopeHandle{container: c, cc: cc, ref: ref, pos: pos, id: s.id}
}

// ActiveScopeID returns the id of the scope Scoped resolutions would use for
// this context. Useful for diagnostics and tests.
func (c *Container) ActiveScopeID(ctx context.Context) string {
	return c.activeScope(ctx).id
}

// activeScope returns the context's most recent live scope, falling back to
// the root scope when the context began none (or all of them are gone).
func (c *Container) activeScope(ctx context.Context) *Scope {
	if cc, ok := callContextFrom(ctx); ok {
		if _, s, ok := cc.active(c.scopes); ok {
			return s
		}
	}
	return c.root
}
