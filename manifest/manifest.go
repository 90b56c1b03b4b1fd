package manifest

import (
	"os"

	"github.com/kbukum/injectkit/descriptor"
)

// ParamDecl is one constructor parameter of a declared service.
type ParamDecl struct {
	// Type is the parameter's declared type, possibly a Deferred[...] wrapper.
	Type string `mapstructure:"type" validate:"required"`
	// ServiceID selects a named provider for this parameter.
	ServiceID string `mapstructure:"service_id"`
}

// ServiceDecl is one annotated service declaration.
type ServiceDecl struct {
	// Type is the fully-qualified implementation type name.
	Type string `mapstructure:"type" validate:"required"`
	// Implements lists the interfaces the type implements.
	Implements []string `mapstructure:"implements"`
	// Contract restricts the export to exactly this contract.
	Contract string `mapstructure:"contract"`
	// Lifetime is the caching policy; empty defaults to transient.
	Lifetime string `mapstructure:"lifetime" validate:"omitempty,oneof=transient singleton scoped"`
	// ServiceID names the provider, empty for unnamed.
	ServiceID string `mapstructure:"service_id"`
	// Params lists the constructor parameters in declaration order.
	Params []ParamDecl `mapstructure:"params" validate:"omitempty,dive"`
}

// Manifest is one module's declaration file.
type Manifest struct {
	// Module names the declaring module; declaration order within it is the
	// order of the services list.
	Module string `mapstructure:"module" validate:"required"`
	// Services lists the module's declarations.
	Services []ServiceDecl `mapstructure:"services" validate:"required,min=1,dive"`
}

// Declarations converts the manifest into raw declarations, preserving the
// list position as the declaration order.
func (m *Manifest) Declarations() []descriptor.RawDeclaration {
	out := make([]descriptor.RawDeclaration, 0, len(m.Services))
	for i, s := range m.Services {
		decl := descriptor.RawDeclaration{
			DeclaredType: s.Type,
			Implements:   s.Implements,
			Export: descriptor.ExportArguments{
				Contract:  s.Contract,
				Lifetime:  descriptor.Lifetime(s.Lifetime),
				ServiceID: s.ServiceID,
			},
			Module: m.Module,
			Order:  i,
		}
		if len(s.Params) > 0 {
			params := make([]descriptor.RawParameter, 0, len(s.Params))
			for _, p := range s.Params {
				params = append(params, descriptor.RawParameter{
					DeclaredType: p.Type,
					ServiceID:    p.ServiceID,
				})
			}
			decl.Constructors = []descriptor.RawConstructor{{Parameters: params}}
		}
		out = append(out, decl)
	}
	return out
}

// expandEnv substitutes ${VAR} references in every string field.
func (m *Manifest) expandEnv() {
	m.Module = os.ExpandEnv(m.Module)
	for i := range m.Services {
		s := &m.Services[i]
		s.Type = os.ExpandEnv(s.Type)
		s.Contract = os.ExpandEnv(s.Contract)
		s.Lifetime = os.ExpandEnv(s.Lifetime)
		s.ServiceID = os.ExpandEnv(s.ServiceID)
		for j := range s.Implements {
			s.Implements[j] = os.ExpandEnv(s.Implements[j])
		}
		for j := range s.Params {
			s.Params[j].Type = os.ExpandEnv(s.Params[j].Type)
			s.Params[j].ServiceID = os.ExpandEnv(s.Params[j].ServiceID)
		}
	}
}
