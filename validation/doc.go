// Package validation provides struct tag validation for manifest types.
//
// It wraps the validator library behind a single entry point so every
// manifest field is checked with tags like `validate:"required,oneof=..."`:
//
//	type ServiceDecl struct {
//	    Type     string `mapstructure:"type" validate:"required"`
//	    Lifetime string `mapstructure:"lifetime" validate:"omitempty,oneof=transient singleton scoped"`
//	}
//	err := validation.Validate(decl)
package validation
