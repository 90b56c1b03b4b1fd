package container

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/injectkit/descriptor"
)

const (
	resolutionHit   = "hit"
	resolutionMiss  = "miss"
	resolutionError = "error"
)

func resolutionOutcome(err error) string {
	if err != nil {
		return resolutionError
	}
	return resolutionHit
}

// metrics holds the container's instruments. A nil *metrics is a valid
// receiver on every method and records nothing, so callers never branch on
// whether a meter was configured.
type metrics struct {
	resolutions       metric.Int64Counter
	cacheHits         metric.Int64Counter
	constructDuration metric.Float64Histogram
	activeScopes      metric.Int64UpDownCounter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	resolutions, err := meter.Int64Counter("container.resolutions.total",
		metric.WithDescription("Total resolutions by contract and outcome"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter("container.cache.hits.total",
		metric.WithDescription("Lifetime cache hits by contract"),
	)
	if err != nil {
		return nil, err
	}

	constructDuration, err := meter.Float64Histogram("container.construct.duration",
		metric.WithDescription("Duration of service construction in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	activeScopes, err := meter.Int64UpDownCounter("container.scopes.active",
		metric.WithDescription("Number of live resolution scopes"),
	)
	if err != nil {
		return nil, err
	}

	return &metrics{
		resolutions:       resolutions,
		cacheHits:         cacheHits,
		constructDuration: constructDuration,
		activeScopes:      activeScopes,
	}, nil
}

func (m *metrics) recordResolution(ctx context.Context, contract, outcome string) {
	if m == nil {
		return
	}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("contract", contract),
		attribute.String("outcome", outcome),
	))
}

func (m *metrics) recordCacheHit(ctx context.Context, contract string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("contract", contract),
	))
}

func (m *metrics) recordConstruction(ctx context.Context, implementation string, duration time.Duration, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.constructDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("implementation", implementation),
		attribute.String("status", status),
	))
}

func (m *metrics) scopeBegun(ctx context.Context) {
	if m == nil {
		return
	}
	m.activeScopes.Add(ctx, 1)
}

func (m *metrics) scopeDisposed(ctx context.Context) {
	if m == nil {
		return
	}
	m.activeScopes.Add(ctx, -1)
}

func (c *Container) startConstructSpan(ctx context.Context, sd descriptor.ServiceDescriptor) (context.Context, trace.Span) {
	if c.tracer == nil {
		return ctx, nil
	}
	return c.tracer.Start(ctx, "container.construct",
		trace.WithAttributes(
			attribute.String("implementation", sd.Implementation.Name()),
			attribute.String("lifetime", sd.Lifetime.String()),
		),
	)
}

func (c *Container) endConstructSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
