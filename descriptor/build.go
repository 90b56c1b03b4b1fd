package descriptor

import (
	"github.com/kbukum/injectkit/errors"
)

// Build normalizes raw declarations into service descriptors, applying the
// export rules: an explicit contract filter yields exactly one descriptor,
// implemented interfaces fan out to one descriptor each, and a type with
// neither exports itself as its own contract.
//
// Every configuration defect found is collected; the returned error is an
// *errors.Aggregate covering all of them.
func Build(decls []RawDeclaration) ([]ServiceDescriptor, error) {
	agg := errors.NewAggregate()
	out := make([]ServiceDescriptor, 0, len(decls))
	seen := make(map[string]struct{})

	for _, decl := range decls {
		descs, err := buildOne(decl)
		if err != nil {
			agg.Add(err)
			continue
		}
		for _, sd := range descs {
			// Duplicate discovery of the same (contract, implementation,
			// service id) triple collapses to one registration.
			if _, dup := seen[sd.Identity()]; dup {
				continue
			}
			seen[sd.Identity()] = struct{}{}
			out = append(out, sd)
		}
	}

	if err := agg.ErrOrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildOne(decl RawDeclaration) ([]ServiceDescriptor, *errors.ConfigError) {
	impl := NewType(decl.DeclaredType)

	if len(decl.Constructors) > 1 {
		return nil, errors.MultipleConstructors(impl.Name(), len(decl.Constructors))
	}

	lifetime := decl.Export.Lifetime
	if lifetime == "" {
		lifetime = Transient
	}
	if !lifetime.Valid() {
		return nil, errors.InvalidLifetime(impl.Name(), lifetime.String())
	}

	var deps []DependencyDescriptor
	if len(decl.Constructors) == 1 {
		params := decl.Constructors[0].Parameters
		deps = make([]DependencyDescriptor, 0, len(params))
		for _, p := range params {
			inner, deferred := unwrapDeferred(p.DeclaredType)
			deps = append(deps, DependencyDescriptor{
				Contract:  NewType(inner),
				ServiceID: p.ServiceID,
				Deferred:  deferred,
			})
		}
	}

	contracts, err := exportedContracts(decl, impl)
	if err != nil {
		return nil, err
	}

	descs := make([]ServiceDescriptor, 0, len(contracts))
	for _, contract := range contracts {
		descs = append(descs, ServiceDescriptor{
			Contract:       contract,
			Implementation: impl,
			Dependencies:   deps,
			Lifetime:       lifetime,
			ServiceID:      decl.Export.ServiceID,
			Module:         decl.Module,
			Order:          decl.Order,
		})
	}
	return descs, nil
}

// exportedContracts decides which contracts a declaration is exported under.
func exportedContracts(decl RawDeclaration, impl TypeDescriptor) ([]TypeDescriptor, *errors.ConfigError) {
	if decl.Export.Contract != "" {
		contract := NewType(decl.Export.Contract)
		if !contract.Equal(impl) && !implementsContract(decl.Implements, contract) {
			return nil, errors.ContractNotImplemented(impl.Name(), contract.Name())
		}
		return []TypeDescriptor{contract}, nil
	}

	if len(decl.Implements) > 0 {
		contracts := make([]TypeDescriptor, 0, len(decl.Implements))
		for _, iface := range decl.Implements {
			contracts = append(contracts, NewType(iface))
		}
		return contracts, nil
	}

	return []TypeDescriptor{impl}, nil
}

func implementsContract(implements []string, contract TypeDescriptor) bool {
	for _, iface := range implements {
		if NewType(iface).Equal(contract) {
			return true
		}
	}
	return false
}
