package plan

import (
	"github.com/kbukum/injectkit/descriptor"
)

// Mode classifies how unqualified resolution of a contract behaves.
type Mode string

const (
	// ModeSingle means one unnamed provider (or none, when only named
	// providers exist) satisfies both single and collection consumption.
	ModeSingle Mode = "single"
	// ModeCollection means several unnamed providers exist; only collection
	// consumption succeeds, single consumption yields none.
	ModeCollection Mode = "collection"
)

// ContractGroup holds every provider of one contract plus the classification
// the planner derived for it. Groups are built once per plan and immutable
// afterward.
type ContractGroup struct {
	// Contract is the type the group's providers are requested by.
	Contract descriptor.TypeDescriptor
	// Mode classifies unqualified resolution.
	Mode Mode
	// Unnamed lists providers without a service id, in discovery order.
	Unnamed []descriptor.ServiceDescriptor
	// Named indexes providers by service id.
	Named map[string]descriptor.ServiceDescriptor
}

// Single returns the sole unnamed provider when unqualified resolution is
// unambiguous.
func (g *ContractGroup) Single() (descriptor.ServiceDescriptor, bool) {
	if g.Mode == ModeSingle && len(g.Unnamed) == 1 {
		return g.Unnamed[0], true
	}
	return descriptor.ServiceDescriptor{}, false
}

// ByID returns the named provider registered under the given service id.
func (g *ContractGroup) ByID(serviceID string) (descriptor.ServiceDescriptor, bool) {
	sd, ok := g.Named[serviceID]
	return sd, ok
}

// Size returns the total provider count of the group.
func (g *ContractGroup) Size() int {
	return len(g.Unnamed) + len(g.Named)
}
