// Package plan turns a flat set of service descriptors into a conflict-free
// per-contract resolution plan.
//
// Descriptors are grouped by contract, each group is classified as Single or
// Collection, named providers are indexed by service id, and every
// constructor dependency is checked against the plan before any resolution
// can happen. All configuration defects are reported together as one
// aggregated failure.
package plan
