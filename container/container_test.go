package container

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/injectkit/descriptor"
	ikerrors "github.com/kbukum/injectkit/errors"
	"github.com/kbukum/injectkit/plan"
)

type widget struct {
	tag string
}

func svc(contract, impl string, lt descriptor.Lifetime, order int, deps ...descriptor.DependencyDescriptor) descriptor.ServiceDescriptor {
	return descriptor.ServiceDescriptor{
		Contract:       descriptor.NewType(contract),
		Implementation: descriptor.NewType(impl),
		Dependencies:   deps,
		Lifetime:       lt,
		Module:         "app",
		Order:          order,
	}
}

func namedSvc(contract, impl, id string, lt descriptor.Lifetime, order int) descriptor.ServiceDescriptor {
	sd := svc(contract, impl, lt, order)
	sd.ServiceID = id
	return sd
}

func dep(contract string) descriptor.DependencyDescriptor {
	return descriptor.DependencyDescriptor{Contract: descriptor.NewType(contract)}
}

func mustPlan(t *testing.T, descs ...descriptor.ServiceDescriptor) *plan.Plan {
	t.Helper()
	p, err := plan.Build(descs)
	if err != nil {
		t.Fatalf("plan build failed: %v", err)
	}
	return p
}

func mustContainer(t *testing.T, p *plan.Plan, f Factories) *Container {
	t.Helper()
	c, err := New(p, f)
	if err != nil {
		t.Fatalf("container assembly failed: %v", err)
	}
	return c
}

// tagged returns a constructor producing fresh *widget values and counting
// invocations.
func tagged(tag string, calls *int32) Constructor {
	return func(ctx context.Context, deps []any) (any, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		return &widget{tag: tag}, nil
	}
}

func TestNewRejectsNilPlan(t *testing.T) {
	_, err := New(nil, NewFactories())
	if err == nil {
		t.Fatal("expected error for nil plan")
	}
	var ce *ikerrors.ConfigError
	if !stderrors.As(err, &ce) || ce.Code != ikerrors.ErrCodeInvalidPlan {
		t.Fatalf("expected invalid plan error, got %v", err)
	}
}

func TestNewReportsMissingFactories(t *testing.T) {
	p := mustPlan(t,
		svc("Logger", "FileLogger", descriptor.Singleton, 0),
		svc("Clock", "SystemClock", descriptor.Transient, 1),
	)
	f := NewFactories().Add("FileLogger", tagged("log", nil))

	_, err := New(p, f)
	if err == nil {
		t.Fatal("expected error for missing constructor")
	}
	var agg *ikerrors.Aggregate
	if !stderrors.As(err, &agg) {
		t.Fatalf("expected aggregate, got %T", err)
	}
	if !agg.HasCode(ikerrors.ErrCodeMissingFactory) {
		t.Fatalf("expected missing factory code, got %v", agg)
	}
}

func TestResolveSingletonCachesOneInstance(t *testing.T) {
	var calls int32
	p := mustPlan(t, svc("Logger", "FileLogger", descriptor.Singleton, 0))
	c := mustContainer(t, p, NewFactories().Add("FileLogger", tagged("log", &calls)))

	ctx := context.Background()
	first, err := c.Resolve(ctx, descriptor.NewType("Logger"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	second, err := c.Resolve(ctx, descriptor.NewType("Logger"))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if first == nil || first != second {
		t.Fatal("expected the same singleton instance on every resolve")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one construction, got %d", got)
	}
}

func TestResolveSingletonConcurrentSingleWinner(t *testing.T) {
	p := mustPlan(t, svc("Logger", "FileLogger", descriptor.Singleton, 0))
	c := mustContainer(t, p, NewFactories().Add("FileLogger", tagged("log", nil)))

	ctx := context.Background()
	const n = 64
	results := make([]any, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			v, err := c.Resolve(ctx, descriptor.NewType("Logger"))
			if err != nil {
				t.Errorf("resolve failed: %v", err)
				return
			}
			results[i] = v
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent resolutions observed different singleton instances")
		}
	}
}

func TestResolveTransientConstructsEveryTime(t *testing.T) {
	var calls int32
	p := mustPlan(t, svc("Clock", "SystemClock", descriptor.Transient, 0))
	c := mustContainer(t, p, NewFactories().Add("SystemClock", tagged("clock", &calls)))

	ctx := context.Background()
	first, _ := c.Resolve(ctx, descriptor.NewType("Clock"))
	second, _ := c.Resolve(ctx, descriptor.NewType("Clock"))
	if first == second {
		t.Fatal("expected distinct transient instances")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected two constructions, got %d", got)
	}
}

func TestResolveNoProviderOutcomes(t *testing.T) {
	p := mustPlan(t,
		svc("Handler", "UserHandler", descriptor.Transient, 0),
		svc("Handler", "OrderHandler", descriptor.Transient, 1),
		namedSvc("Store", "MemStore", "mem", descriptor.Singleton, 2),
	)
	f := NewFactories().
		Add("UserHandler", tagged("user", nil)).
		Add("OrderHandler", tagged("order", nil)).
		Add("MemStore", tagged("mem", nil))
	c := mustContainer(t, p, f)
	ctx := context.Background()

	if v, err := c.Resolve(ctx, descriptor.NewType("Unknown")); v != nil || err != nil {
		t.Fatalf("unregistered contract: got (%v, %v), want (nil, nil)", v, err)
	}
	if v, err := c.Resolve(ctx, descriptor.NewType("Handler")); v != nil || err != nil {
		t.Fatalf("collection contract: got (%v, %v), want (nil, nil)", v, err)
	}
	if v, err := c.Resolve(ctx, descriptor.NewType("Store")); v != nil || err != nil {
		t.Fatalf("named-only contract: got (%v, %v), want (nil, nil)", v, err)
	}
	if v, err := c.ResolveNamed(ctx, descriptor.NewType("Store"), "disk"); v != nil || err != nil {
		t.Fatalf("unknown service id: got (%v, %v), want (nil, nil)", v, err)
	}
}

func TestResolveManyPreservesDiscoveryOrder(t *testing.T) {
	p := mustPlan(t,
		svc("Handler", "UserHandler", descriptor.Transient, 0),
		svc("Handler", "OrderHandler", descriptor.Transient, 1),
	)
	f := NewFactories().
		Add("UserHandler", tagged("user", nil)).
		Add("OrderHandler", tagged("order", nil))
	c := mustContainer(t, p, f)

	vs, err := c.ResolveMany(context.Background(), descriptor.NewType("Handler"))
	if err != nil {
		t.Fatalf("resolve many failed: %v", err)
	}
	if len(vs) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(vs))
	}
	if vs[0].(*widget).tag != "user" || vs[1].(*widget).tag != "order" {
		t.Fatalf("expected declaration order [user order], got [%s %s]",
			vs[0].(*widget).tag, vs[1].(*widget).tag)
	}

	if vs, err := c.ResolveMany(context.Background(), descriptor.NewType("Unknown")); err != nil || len(vs) != 0 {
		t.Fatalf("unregistered contract: got (%v, %v), want empty", vs, err)
	}
}

func TestResolveNamedProvidersAreIndependent(t *testing.T) {
	p := mustPlan(t,
		namedSvc("Store", "MemStore", "mem", descriptor.Singleton, 0),
		namedSvc("Store", "DiskStore", "disk", descriptor.Singleton, 1),
	)
	f := NewFactories().
		Add("MemStore", tagged("mem", nil)).
		Add("DiskStore", tagged("disk", nil))
	c := mustContainer(t, p, f)
	ctx := context.Background()

	mem, err := c.ResolveNamed(ctx, descriptor.NewType("Store"), "mem")
	if err != nil {
		t.Fatalf("resolve named failed: %v", err)
	}
	disk, err := c.ResolveNamed(ctx, descriptor.NewType("Store"), "disk")
	if err != nil {
		t.Fatalf("resolve named failed: %v", err)
	}
	if mem == disk {
		t.Fatal("expected distinct instances per service id")
	}
	memAgain, _ := c.ResolveNamed(ctx, descriptor.NewType("Store"), "mem")
	if memAgain != mem {
		t.Fatal("expected named singleton to be cached per id")
	}
}

func TestResolveEagerDependencies(t *testing.T) {
	p := mustPlan(t,
		svc("Logger", "FileLogger", descriptor.Singleton, 0),
		svc("Service", "UserService", descriptor.Transient, 1, dep("Logger")),
	)
	f := NewFactories().
		Add("FileLogger", tagged("log", nil)).
		Add("UserService", func(ctx context.Context, deps []any) (any, error) {
			if len(deps) != 1 {
				t.Fatalf("expected 1 dependency, got %d", len(deps))
			}
			if _, ok := deps[0].(*widget); !ok {
				t.Fatalf("expected resolved dependency, got %T", deps[0])
			}
			return &widget{tag: "svc"}, nil
		})
	c := mustContainer(t, p, f)

	if _, err := c.Resolve(context.Background(), descriptor.NewType("Service")); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
}

func TestConstructionFailureIsNotCached(t *testing.T) {
	boom := stderrors.New("db unreachable")
	var calls int32
	p := mustPlan(t, svc("DB", "Postgres", descriptor.Singleton, 0))
	f := NewFactories().Add("Postgres", func(ctx context.Context, deps []any) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, boom
		}
		return &widget{tag: "db"}, nil
	})
	c := mustContainer(t, p, f)
	ctx := context.Background()

	if _, err := c.Resolve(ctx, descriptor.NewType("DB")); !stderrors.Is(err, boom) {
		t.Fatalf("expected construction error to propagate, got %v", err)
	}
	v, err := c.Resolve(ctx, descriptor.NewType("DB"))
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if v == nil {
		t.Fatal("expected instance after retry")
	}
	again, _ := c.Resolve(ctx, descriptor.NewType("DB"))
	if again != v {
		t.Fatal("expected successful instance to be cached")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected exactly two constructions, got %d", got)
	}
}

func TestDeferredDependencyResolvesAtCallTime(t *testing.T) {
	var sessionCalls int32
	p := mustPlan(t,
		svc("Session", "DBSession", descriptor.Scoped, 0),
		svc("Repo", "UserRepo", descriptor.Singleton, 1, descriptor.DependencyDescriptor{
			Contract: descriptor.NewType("Session"),
			Deferred: true,
		}),
	)

	var captured Deferred
	f := NewFactories().
		Add("DBSession", tagged("session", &sessionCalls)).
		Add("UserRepo", func(ctx context.Context, deps []any) (any, error) {
			d, ok := deps[0].(Deferred)
			if !ok {
				t.Fatalf("expected Deferred parameter, got %T", deps[0])
			}
			captured = d
			return &widget{tag: "repo"}, nil
		})
	c := mustContainer(t, p, f)

	if _, err := c.Resolve(context.Background(), descriptor.NewType("Repo")); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if atomic.LoadInt32(&sessionCalls) != 0 {
		t.Fatal("deferred dependency must not be constructed eagerly")
	}

	// The deferred factory binds to whatever scope is active when invoked,
	// not to the scope that constructed the singleton.
	ctxA, scopeA := c.BeginScope(context.Background())
	ctxB, scopeB := c.BeginScope(context.Background())
	defer scopeA.Dispose()
	defer scopeB.Dispose()

	a1, err := captured(ctxA)
	if err != nil {
		t.Fatalf("deferred resolution failed: %v", err)
	}
	a2, _ := captured(ctxA)
	b1, _ := captured(ctxB)
	if a1 != a2 {
		t.Fatal("expected the same scoped instance within one scope")
	}
	if a1 == b1 {
		t.Fatal("expected distinct scoped instances across scopes")
	}
}

func TestDeferredTransientConstructsPerCall(t *testing.T) {
	p := mustPlan(t,
		svc("Clock", "SystemClock", descriptor.Transient, 0),
		svc("Scheduler", "CronScheduler", descriptor.Singleton, 1, descriptor.DependencyDescriptor{
			Contract: descriptor.NewType("Clock"),
			Deferred: true,
		}),
	)

	var captured Deferred
	f := NewFactories().
		Add("SystemClock", tagged("clock", nil)).
		Add("CronScheduler", func(ctx context.Context, deps []any) (any, error) {
			captured = deps[0].(Deferred)
			return &widget{tag: "sched"}, nil
		})
	c := mustContainer(t, p, f)

	if _, err := c.Resolve(context.Background(), descriptor.NewType("Scheduler")); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	first, err := captured(context.Background())
	if err != nil {
		t.Fatalf("deferred resolution failed: %v", err)
	}
	second, _ := captured(context.Background())
	if first == second {
		t.Fatal("expected a fresh transient instance per deferred call")
	}
}

func TestTypedHelpers(t *testing.T) {
	p := mustPlan(t,
		svc("Logger", "FileLogger", descriptor.Singleton, 0),
		namedSvc("Store", "MemStore", "mem", descriptor.Singleton, 1),
		svc("Handler", "UserHandler", descriptor.Transient, 2),
		svc("Handler", "OrderHandler", descriptor.Transient, 3),
	)
	f := NewFactories().
		Add("FileLogger", tagged("log", nil)).
		Add("MemStore", tagged("mem", nil)).
		Add("UserHandler", tagged("user", nil)).
		Add("OrderHandler", tagged("order", nil))
	c := mustContainer(t, p, f)
	ctx := context.Background()

	w, ok, err := Resolve[*widget](ctx, c, descriptor.NewType("Logger"))
	if err != nil || !ok || w.tag != "log" {
		t.Fatalf("Resolve: got (%v, %v, %v)", w, ok, err)
	}

	if _, ok, err := Resolve[*widget](ctx, c, descriptor.NewType("Unknown")); ok || err != nil {
		t.Fatalf("Resolve of unregistered contract: got (ok=%v, err=%v)", ok, err)
	}

	if _, _, err := Resolve[string](ctx, c, descriptor.NewType("Logger")); err == nil {
		t.Fatal("expected type mismatch error")
	}

	ws, err := ResolveMany[*widget](ctx, c, descriptor.NewType("Handler"))
	if err != nil || len(ws) != 2 {
		t.Fatalf("ResolveMany: got (%v, %v)", ws, err)
	}

	m, ok, err := ResolveNamed[*widget](ctx, c, descriptor.NewType("Store"), "mem")
	if err != nil || !ok || m.tag != "mem" {
		t.Fatalf("ResolveNamed: got (%v, %v, %v)", m, ok, err)
	}
	if _, ok, _ := ResolveNamed[*widget](ctx, c, descriptor.NewType("Store"), "disk"); ok {
		t.Fatal("expected unknown service id to report not found")
	}

	if got := MustResolve[*widget](ctx, c, descriptor.NewType("Logger")); got.tag != "log" {
		t.Fatalf("MustResolve returned %v", got)
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected MustResolve to panic for missing provider")
			}
		}()
		MustResolve[*widget](ctx, c, descriptor.NewType("Unknown"))
	}()
}
