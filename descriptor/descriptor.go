package descriptor

import "fmt"

// Lifetime is the caching policy of a service.
type Lifetime string

const (
	// Transient services are constructed on every resolution and never cached.
	Transient Lifetime = "transient"
	// Singleton services are cached process-wide for the container lifetime.
	Singleton Lifetime = "singleton"
	// Scoped services are cached per scope.
	Scoped Lifetime = "scoped"
)

// String returns the string representation of the lifetime.
func (l Lifetime) String() string { return string(l) }

// Valid reports whether the lifetime is one of the known policies.
func (l Lifetime) Valid() bool {
	switch l {
	case Transient, Singleton, Scoped:
		return true
	}
	return false
}

// ParseLifetime converts a string into a Lifetime. An empty string defaults
// to Transient.
func ParseLifetime(s string) (Lifetime, error) {
	switch Lifetime(s) {
	case "":
		return Transient, nil
	case Transient:
		return Transient, nil
	case Singleton:
		return Singleton, nil
	case Scoped:
		return Scoped, nil
	}
	return "", fmt.Errorf("unknown lifetime %q", s)
}

// DependencyDescriptor describes one constructor parameter of a service.
type DependencyDescriptor struct {
	// Contract is the type the parameter is resolved by.
	Contract TypeDescriptor
	// ServiceID selects a named provider of the contract, empty for unnamed.
	ServiceID string
	// Deferred marks a parameter that receives a factory for the contract
	// instead of an eagerly resolved instance.
	Deferred bool
}

// Equal reports whether two dependencies address the same provider slot.
// Deferral does not participate in identity.
func (d DependencyDescriptor) Equal(other DependencyDescriptor) bool {
	return d.Contract.Equal(other.Contract) && d.ServiceID == other.ServiceID
}

func (d DependencyDescriptor) String() string {
	s := d.Contract.String()
	if d.ServiceID != "" {
		s += "#" + d.ServiceID
	}
	if d.Deferred {
		s = "deferred " + s
	}
	return s
}

// ServiceDescriptor is the normalized representation of one exported service.
type ServiceDescriptor struct {
	// Contract is the type the service is requested by.
	Contract TypeDescriptor
	// Implementation is the concrete type constructed for the contract.
	Implementation TypeDescriptor
	// Dependencies lists the constructor parameters in declaration order.
	Dependencies []DependencyDescriptor
	// Lifetime is the caching policy.
	Lifetime Lifetime
	// ServiceID distinguishes this provider among same-contract providers,
	// empty for unnamed.
	ServiceID string
	// Module names the defining module; with Order it fixes discovery order.
	Module string
	// Order is the declaration position within the module.
	Order int
}

// Named reports whether the descriptor carries a service id.
func (s ServiceDescriptor) Named() bool { return s.ServiceID != "" }

// Identity returns the (contract, implementation, service id) triple as a
// string. Duplicate discovery of the same triple collapses to one registration.
func (s ServiceDescriptor) Identity() string {
	return s.Contract.Key() + "|" + s.Implementation.Key() + "|" + s.ServiceID
}

// CacheKey returns the (contract, service id) pair instances are cached by.
func (s ServiceDescriptor) CacheKey() string {
	return s.Contract.Key() + "#" + s.ServiceID
}

func (s ServiceDescriptor) String() string {
	id := ""
	if s.ServiceID != "" {
		id = "#" + s.ServiceID
	}
	return fmt.Sprintf("%s%s -> %s (%s)", s.Contract, id, s.Implementation, s.Lifetime)
}
