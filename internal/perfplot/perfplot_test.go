package perfplot_test

import (
	"testing"

	"github.com/pdp-systems/rvhart/internal/perfplot"
)

func TestHistogramCounts(t *testing.T) {
	h := perfplot.NewHistogram()
	h.Count("load")
	h.Count("load")
	h.Count("branch")

	if h.Get("load") != 2 {
		t.Fatalf("load count = %d, want 2", h.Get("load"))
	}
	if h.Get("branch") != 1 {
		t.Fatalf("branch count = %d, want 1", h.Get("branch"))
	}
	if h.Get("store") != 0 {
		t.Fatalf("store count = %d, want 0 (never counted)", h.Get("store"))
	}

	classes := h.Classes()
	if len(classes) != 2 || classes[0] != "load" || classes[1] != "branch" {
		t.Fatalf("classes = %v, want [load branch] in first-seen order", classes)
	}
}
