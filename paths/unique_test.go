package paths_test

import (
	"strings"
	"testing"

	"github.com/pdp-systems/rvhart/paths"
)

func TestUniqueFilename(t *testing.T) {
	fn := paths.UniqueFilename("halt-with-code", "")
	if !strings.HasPrefix(fn, "halt-with-code_") {
		t.Fatalf("unexpected filename %q", fn)
	}

	fn = paths.UniqueFilename("trace", "case-1")
	if !strings.HasPrefix(fn, "trace_case-1_") {
		t.Fatalf("unexpected filename %q", fn)
	}
}
