package descriptor

import "strings"

// TypeDescriptor identifies a type by its fully-qualified name. It is an
// immutable value; two descriptors are equal when their names match
// case-insensitively.
type TypeDescriptor struct {
	name string
	key  string
}

// NewType creates a TypeDescriptor from a fully-qualified type name.
func NewType(name string) TypeDescriptor {
	name = strings.TrimSpace(name)
	return TypeDescriptor{name: name, key: strings.ToLower(name)}
}

// Name returns the type name as declared.
func (t TypeDescriptor) Name() string { return t.name }

// Key returns the canonical (lowercased) form used for map keys and equality.
func (t TypeDescriptor) Key() string { return t.key }

// Equal reports whether two descriptors name the same type, ignoring case.
func (t TypeDescriptor) Equal(other TypeDescriptor) bool { return t.key == other.key }

// IsZero reports whether the descriptor is empty.
func (t TypeDescriptor) IsZero() bool { return t.key == "" }

func (t TypeDescriptor) String() string { return t.name }

// deferredPrefix marks a constructor parameter that wants a factory for the
// wrapped type instead of an eagerly resolved instance, e.g. "Deferred[app.Repo]".
const deferredPrefix = "deferred["

// unwrapDeferred strips the deferred-factory wrapper from a declared parameter
// type. The match is case-insensitive; the wrapped name is returned as written.
func unwrapDeferred(declared string) (string, bool) {
	declared = strings.TrimSpace(declared)
	lower := strings.ToLower(declared)
	if !strings.HasPrefix(lower, deferredPrefix) || !strings.HasSuffix(lower, "]") {
		return declared, false
	}
	inner := declared[len(deferredPrefix) : len(declared)-1]
	return strings.TrimSpace(inner), true
}
