package errors

// ErrorCode represents a machine-readable configuration error code.
type ErrorCode string

// Descriptor construction errors
const (
	// ErrCodeMultipleConstructors indicates an exported implementation
	// declares more than one eligible constructor.
	ErrCodeMultipleConstructors ErrorCode = "MULTIPLE_CONSTRUCTORS"
	// ErrCodeContractNotImplemented indicates an explicit contract filter
	// names a type the implementation does not implement.
	ErrCodeContractNotImplemented ErrorCode = "CONTRACT_NOT_IMPLEMENTED"
	// ErrCodeInvalidLifetime indicates an unknown lifetime value.
	ErrCodeInvalidLifetime ErrorCode = "INVALID_LIFETIME"
)

// Plan-build errors
const (
	// ErrCodeDuplicateServiceID indicates two providers of one contract
	// share the same service id.
	ErrCodeDuplicateServiceID ErrorCode = "DUPLICATE_SERVICE_ID"
	// ErrCodeMissingProvider indicates a dependency whose contract has no
	// provider able to satisfy it.
	ErrCodeMissingProvider ErrorCode = "MISSING_PROVIDER"
	// ErrCodeAmbiguousDependency indicates an unnamed dependency on a
	// contract with more than one unnamed provider.
	ErrCodeAmbiguousDependency ErrorCode = "AMBIGUOUS_DEPENDENCY"
)

// Container-assembly errors
const (
	// ErrCodeMissingFactory indicates a planned implementation has no
	// registered constructor function.
	ErrCodeMissingFactory ErrorCode = "MISSING_FACTORY"
	// ErrCodeInvalidPlan indicates the container was assembled from a nil
	// or inconsistent resolution plan.
	ErrCodeInvalidPlan ErrorCode = "INVALID_PLAN"
)

// Manifest errors
const (
	// ErrCodeInvalidManifest indicates a declaration manifest failed to
	// load or validate.
	ErrCodeInvalidManifest ErrorCode = "INVALID_MANIFEST"
	// ErrCodeValidation indicates a struct failed tag-based validation.
	ErrCodeValidation ErrorCode = "VALIDATION"
)
