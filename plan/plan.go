package plan

import (
	"sort"

	"github.com/kbukum/injectkit/descriptor"
)

// ModuleFacts summarizes one module's declarations. Emission collaborators
// may use the facts to skip generating scope or keyed-lookup machinery for
// modules that never need it; they are an optimization, not a correctness
// requirement.
type ModuleFacts struct {
	// DefinesScoped reports whether the module declares any Scoped service.
	DefinesScoped bool
	// DefinesNamed reports whether the module declares any named service.
	DefinesNamed bool
}

// Plan is the precomputed, per-contract decision of how resolution requests
// are satisfied. It is built once and read-only at runtime.
type Plan struct {
	groups map[string]*ContractGroup
	order  []string
	facts  map[string]ModuleFacts
}

// Group returns the contract group for a contract, if any provider exists.
func (p *Plan) Group(contract descriptor.TypeDescriptor) (*ContractGroup, bool) {
	g, ok := p.groups[contract.Key()]
	return g, ok
}

// Groups returns every contract group in deterministic (first-discovery)
// order.
func (p *Plan) Groups() []*ContractGroup {
	out := make([]*ContractGroup, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, p.groups[key])
	}
	return out
}

// Contracts returns every planned contract in deterministic order.
func (p *Plan) Contracts() []descriptor.TypeDescriptor {
	out := make([]descriptor.TypeDescriptor, 0, len(p.order))
	for _, key := range p.order {
		out = append(out, p.groups[key].Contract)
	}
	return out
}

// Facts returns the declaration facts recorded for a module.
func (p *Plan) Facts(module string) (ModuleFacts, bool) {
	f, ok := p.facts[module]
	return f, ok
}

// Modules returns the names of every module that contributed a provider,
// sorted.
func (p *Plan) Modules() []string {
	out := make([]string, 0, len(p.facts))
	for m := range p.facts {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
