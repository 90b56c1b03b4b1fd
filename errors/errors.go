package errors

import (
	"fmt"
	"strings"
)

// ConfigError is a single configuration defect detected while building
// descriptors, the resolution plan, or the container.
type ConfigError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *ConfigError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *ConfigError) WithCause(cause error) *ConfigError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *ConfigError) WithDetail(key string, value any) *ConfigError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new ConfigError.
func New(code ErrorCode, message string) *ConfigError {
	return &ConfigError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// MultipleConstructors reports an implementation with more than one eligible constructor.
func MultipleConstructors(typeName string, count int) *ConfigError {
	return &ConfigError{
		Code: ErrCodeMultipleConstructors, Message: fmt.Sprintf("type %s declares %d eligible constructors, expected exactly one", typeName, count),
		Details: map[string]any{"type": typeName, "constructors": count},
	}
}

// ContractNotImplemented reports an explicit contract the declared type does not implement.
func ContractNotImplemented(typeName, contract string) *ConfigError {
	return &ConfigError{
		Code: ErrCodeContractNotImplemented, Message: fmt.Sprintf("type %s exports contract %s but does not implement it", typeName, contract),
		Details: map[string]any{"type": typeName, "contract": contract},
	}
}

// InvalidLifetime reports an unknown lifetime value on a declaration.
func InvalidLifetime(typeName, lifetime string) *ConfigError {
	return &ConfigError{
		Code: ErrCodeInvalidLifetime, Message: fmt.Sprintf("type %s declares unknown lifetime %q", typeName, lifetime),
		Details: map[string]any{"type": typeName, "lifetime": lifetime},
	}
}

// DuplicateServiceID reports two providers of one contract sharing a service id.
func DuplicateServiceID(contract, serviceID string) *ConfigError {
	return &ConfigError{
		Code: ErrCodeDuplicateServiceID, Message: fmt.Sprintf("contract %s has more than one provider with service id %q", contract, serviceID),
		Details: map[string]any{"contract": contract, "service_id": serviceID},
	}
}

// MissingProvider reports a dependency no provider can satisfy.
func MissingProvider(consumer, contract, serviceID string) *ConfigError {
	msg := fmt.Sprintf("dependency %s of %s has no provider", contract, consumer)
	details := map[string]any{"consumer": consumer, "contract": contract}
	if serviceID != "" {
		msg = fmt.Sprintf("dependency %s (service id %q) of %s has no provider", contract, serviceID, consumer)
		details["service_id"] = serviceID
	}
	return &ConfigError{Code: ErrCodeMissingProvider, Message: msg, Details: details}
}

// AmbiguousDependency reports an unnamed dependency on a multi-provider contract.
func AmbiguousDependency(consumer, contract string, providers int) *ConfigError {
	return &ConfigError{
		Code: ErrCodeAmbiguousDependency, Message: fmt.Sprintf("dependency %s of %s is ambiguous: %d unnamed providers", contract, consumer, providers),
		Details: map[string]any{"consumer": consumer, "contract": contract, "providers": providers},
	}
}

// MissingFactory reports a planned implementation without a registered constructor.
func MissingFactory(implementation string) *ConfigError {
	return &ConfigError{
		Code: ErrCodeMissingFactory, Message: fmt.Sprintf("no constructor registered for implementation %s", implementation),
		Details: map[string]any{"implementation": implementation},
	}
}

// InvalidPlan reports container assembly against a nil or inconsistent plan.
func InvalidPlan(reason string) *ConfigError {
	return &ConfigError{Code: ErrCodeInvalidPlan, Message: reason}
}

// Validation reports a struct that failed tag-based validation.
func Validation(message string) *ConfigError {
	return &ConfigError{Code: ErrCodeValidation, Message: message}
}

// InvalidManifest reports a declaration manifest that failed to load or validate.
func InvalidManifest(path, reason string) *ConfigError {
	return &ConfigError{
		Code: ErrCodeInvalidManifest, Message: fmt.Sprintf("manifest %s: %s", path, reason),
		Details: map[string]any{"path": path},
	}
}

// Aggregate collects every configuration error found during one build pass so
// callers see all defects at once instead of fixing them one at a time.
type Aggregate struct {
	Errors []*ConfigError
}

// NewAggregate creates an empty aggregate.
func NewAggregate() *Aggregate {
	return &Aggregate{}
}

// Add appends an error to the aggregate. Nil errors are ignored.
func (a *Aggregate) Add(err *ConfigError) {
	if err != nil {
		a.Errors = append(a.Errors, err)
	}
}

// Merge appends every error from another aggregate.
func (a *Aggregate) Merge(other *Aggregate) {
	if other != nil {
		a.Errors = append(a.Errors, other.Errors...)
	}
}

// Empty reports whether the aggregate holds no errors.
func (a *Aggregate) Empty() bool { return len(a.Errors) == 0 }

// ErrOrNil returns the aggregate as an error, or nil when empty.
func (a *Aggregate) ErrOrNil() error {
	if a.Empty() {
		return nil
	}
	return a
}

// Error joins every collected error into one message.
func (a *Aggregate) Error() string {
	if len(a.Errors) == 1 {
		return a.Errors[0].Error()
	}
	parts := make([]string, 0, len(a.Errors))
	for _, e := range a.Errors {
		parts = append(parts, e.Error())
	}
	return fmt.Sprintf("%d configuration errors: %s", len(a.Errors), strings.Join(parts, "; "))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (a *Aggregate) Unwrap() []error {
	errs := make([]error, len(a.Errors))
	for i, e := range a.Errors {
		errs[i] = e
	}
	return errs
}

// HasCode reports whether any collected error carries the given code.
func (a *Aggregate) HasCode(code ErrorCode) bool {
	for _, e := range a.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}
