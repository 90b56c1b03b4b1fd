// Package container is the runtime half of injectkit: it consults a
// precomputed resolution plan to construct service instances, enforcing the
// lifetime cache protocol (Transient, Singleton, Scoped) and the scope stack
// semantics.
//
// The container is a passive, thread-safe structure. Resolution may be
// invoked concurrently; caches use single-winner get-or-create so racing
// constructions never expose more than one instance per key. Scopes are
// tracked through an arena of generation-counted slots, so abandoned scopes
// never crash resolution.
//
// # Usage
//
//	ctn, err := container.New(p, factories)
//	ctx, scope := ctn.BeginScope(ctx)
//	defer scope.Dispose()
//	repo, ok, err := container.Resolve[Repo](ctx, ctn, descriptor.NewType("app.Repo"))
package container
