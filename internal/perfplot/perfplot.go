// Package perfplot renders an instruction-class histogram collected
// over a run to a PNG, using gonum's plotting library.
package perfplot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Histogram counts how many times each named instruction class was
// executed during a run (e.g. the hart.InstructionClass labels "load",
// "store", "branch", "alu", "mul/div", "compressed", "system").
type Histogram struct {
	counts map[string]int
	order  []string
}

// NewHistogram creates an empty Histogram.
func NewHistogram() *Histogram {
	return &Histogram{counts: make(map[string]int)}
}

// Count increments the count for class.
func (h *Histogram) Count(class string) {
	if _, ok := h.counts[class]; !ok {
		h.order = append(h.order, class)
	}
	h.counts[class]++
}

// Get returns the current count for class.
func (h *Histogram) Get(class string) int {
	return h.counts[class]
}

// Classes returns the instruction classes seen so far, in first-seen order.
func (h *Histogram) Classes() []string {
	return h.order
}

// Save renders the histogram as a bar chart PNG at path.
func (h *Histogram) Save(path string) error {
	p := plot.New()
	p.Title.Text = "instruction class histogram"
	p.Y.Label.Text = "count"

	values := make(plotter.Values, len(h.order))
	for i, class := range h.order {
		values[i] = float64(h.counts[class])
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)

	p.NominalX(h.order...)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
