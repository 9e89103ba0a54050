// Package memviz renders the composed memory map as a Graphviz DOT
// graph, for inspecting how regions are laid out without attaching a
// debugger.
package memviz

import (
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/pdp-systems/rvhart/internal/memmap"
)

// Snapshot is a lightweight, exported view of a Map's regions, separate
// from memmap.Map itself so memviz.Map (which walks exported struct
// fields via reflection) has something meaningful to draw.
type Snapshot struct {
	Regions []RegionView
}

// RegionView names one mapped window for display purposes.
type RegionView struct {
	Name string
	Base uint32
	Top  uint32
}

// Render writes a DOT graph of regions to w.
func Render(w io.Writer, regions []memmap.Region) {
	snap := Snapshot{Regions: make([]RegionView, len(regions))}
	for i, r := range regions {
		snap.Regions[i] = RegionView{Name: r.Name, Base: r.Base, Top: r.Base + r.Size}
	}
	memviz.Map(w, &snap)
}
