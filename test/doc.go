// Package test bundles small helpers used across this module's test files:
// CompareWriter and CappedWriter/RingWriter capture output for comparison,
// Equate compares like-typed (and some conveniently mismatched numeric)
// values, and ExpectedFailure/ExpectedSuccess check a generic result/error
// pair without a wall of type-specific boilerplate at every call site.
package test
