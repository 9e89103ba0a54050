package test

import "testing"

// DemandEquality is like Equate but fatal: use it when a later part of the
// same test depends on the values actually being equal, e.g. two slice
// lengths that are about to be iterated over in lock-step.
func DemandEquality[T comparable](t *testing.T, v T, expectedValue T) {
	t.Helper()
	if v != expectedValue {
		t.Fatalf("equality test of type %T failed: '%v' does not equal '%v'", v, v, expectedValue)
	}
}

// DemandSuccess is like ExpectedSuccess but fatal.
func DemandSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if !ExpectedSuccess(t, v) {
		t.Fatalf("a success value is demanded for type %T", v)
	}
}

// DemandFailure is like ExpectedFailure but fatal.
func DemandFailure(t *testing.T, v interface{}) {
	t.Helper()
	if !ExpectedFailure(t, v) {
		t.Fatalf("a failure value is demanded for type %T", v)
	}
}

// DemandImplements tests whether instance implements the interface type T,
// failing the test fatally if it does not.
func DemandImplements[T comparable](t *testing.T, instance interface{}, implements T) bool {
	t.Helper()
	if _, ok := instance.(T); !ok {
		t.Fatalf("implementation test of type %T failed: type %T does not implement %T", instance, instance, implements)
		return false
	}
	return true
}
