package descriptor

// RawParameter is one constructor parameter as reported by discovery.
type RawParameter struct {
	// DeclaredType is the parameter's declared type name, possibly a
	// Deferred[...] wrapper.
	DeclaredType string
	// ServiceID is the per-parameter import id annotation, empty for none.
	ServiceID string
}

// RawConstructor is one eligible constructor of a declared type.
type RawConstructor struct {
	Parameters []RawParameter
}

// ExportArguments carries the annotation arguments of an exported service.
type ExportArguments struct {
	// Contract, when set, restricts the export to exactly this contract.
	Contract string
	// Lifetime is the caching policy; empty defaults to Transient.
	Lifetime Lifetime
	// ServiceID names the provider, empty for unnamed.
	ServiceID string
}

// RawDeclaration is one annotated declaration as produced by an upstream
// discovery feed. Build normalizes raw declarations into service descriptors.
type RawDeclaration struct {
	// DeclaredType is the fully-qualified name of the implementation type.
	DeclaredType string
	// Implements lists the interfaces the type implements.
	Implements []string
	// Constructors lists the eligible public constructors. More than one is
	// a configuration error; none means a parameterless service.
	Constructors []RawConstructor
	// Export carries the annotation arguments.
	Export ExportArguments
	// Module names the module the declaration came from.
	Module string
	// Order is the declaration position within the module.
	Order int
}
