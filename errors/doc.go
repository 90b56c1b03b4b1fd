// Package errors provides unified error handling for injectkit.
// It implements coded configuration errors and an aggregate that surfaces
// every defect of one plan build as a single failure.
package errors
