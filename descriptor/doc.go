// Package descriptor defines the normalized service model the injectkit
// pipeline operates on: type descriptors with case-insensitive identity,
// constructor dependency descriptors, and exported service descriptors.
//
// Raw declarations arrive from an upstream discovery feed (see the manifest
// package for one concrete feed) and are normalized by Build, which applies
// contract fan-out, deferred-factory unwrapping, and the single-constructor
// rule.
package descriptor
