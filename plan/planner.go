package plan

import (
	"sort"

	"github.com/kbukum/injectkit/descriptor"
	"github.com/kbukum/injectkit/errors"
	"github.com/kbukum/injectkit/logger"
)

// Option configures a plan build.
type Option func(*builder)

// WithLogger sets the logger used during the build. Defaults to a no-op
// logger.
func WithLogger(l *logger.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}

type builder struct {
	log *logger.Logger
}

// Build groups service descriptors by contract, classifies each group, and
// validates that every declared dependency can be satisfied. Descriptors are
// first ordered by (module, declaration order) so collection sequencing stays
// stable regardless of how the upstream feed enumerated them.
//
// All configuration defects are collected; a non-nil error is an
// *errors.Aggregate covering every one of them, and no plan is returned.
func Build(descs []descriptor.ServiceDescriptor, opts ...Option) (*Plan, error) {
	b := &builder{log: logger.Nop()}
	for _, opt := range opts {
		opt(b)
	}

	ordered := make([]descriptor.ServiceDescriptor, len(descs))
	copy(ordered, descs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Module != ordered[j].Module {
			return ordered[i].Module < ordered[j].Module
		}
		return ordered[i].Order < ordered[j].Order
	})

	agg := errors.NewAggregate()
	p := &Plan{
		groups: make(map[string]*ContractGroup),
		facts:  make(map[string]ModuleFacts),
	}

	for _, sd := range ordered {
		key := sd.Contract.Key()
		g, ok := p.groups[key]
		if !ok {
			g = &ContractGroup{Contract: sd.Contract, Named: make(map[string]descriptor.ServiceDescriptor)}
			p.groups[key] = g
			p.order = append(p.order, key)
		}
		if sd.Named() {
			if _, dup := g.Named[sd.ServiceID]; dup {
				agg.Add(errors.DuplicateServiceID(sd.Contract.Name(), sd.ServiceID))
				continue
			}
			g.Named[sd.ServiceID] = sd
		} else {
			g.Unnamed = append(g.Unnamed, sd)
		}

		facts := p.facts[sd.Module]
		if sd.Lifetime == descriptor.Scoped {
			facts.DefinesScoped = true
		}
		if sd.Named() {
			facts.DefinesNamed = true
		}
		p.facts[sd.Module] = facts
	}

	for _, key := range p.order {
		g := p.groups[key]
		if len(g.Unnamed) > 1 {
			g.Mode = ModeCollection
		} else {
			g.Mode = ModeSingle
		}
		b.log.Debug("contract planned", logger.Fields(
			logger.FieldContract, g.Contract.Name(),
			logger.FieldMode, string(g.Mode),
			logger.FieldCount, g.Size(),
		))
	}

	b.validateDependencies(p, ordered, agg)

	if err := agg.ErrOrNil(); err != nil {
		b.log.Error("plan build failed", logger.ErrorFields("build-plan", err))
		return nil, err
	}
	b.log.Info("plan built", logger.Fields(logger.FieldCount, len(p.order)))
	return p, nil
}

// validateDependencies checks that every dependency of every provider can be
// satisfied, so missing providers fail the build instead of a later resolve.
func (b *builder) validateDependencies(p *Plan, descs []descriptor.ServiceDescriptor, agg *errors.Aggregate) {
	for _, sd := range descs {
		for _, dep := range sd.Dependencies {
			g, ok := p.groups[dep.Contract.Key()]
			if !ok {
				agg.Add(errors.MissingProvider(sd.Implementation.Name(), dep.Contract.Name(), dep.ServiceID))
				continue
			}
			if dep.ServiceID != "" {
				if _, ok := g.Named[dep.ServiceID]; !ok {
					agg.Add(errors.MissingProvider(sd.Implementation.Name(), dep.Contract.Name(), dep.ServiceID))
				}
				continue
			}
			switch len(g.Unnamed) {
			case 0:
				agg.Add(errors.MissingProvider(sd.Implementation.Name(), dep.Contract.Name(), ""))
			case 1:
				// satisfied
			default:
				agg.Add(errors.AmbiguousDependency(sd.Implementation.Name(), dep.Contract.Name(), len(g.Unnamed)))
			}
		}
	}
}
