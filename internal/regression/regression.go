// Package regression runs a corpus of small RISC-V programs against the
// simulator and checks their final register state against a YAML
// manifest's expectations, reporting progress the way a CI-friendly
// batch tool should.
package regression

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdp-systems/rvhart/hart"
	"github.com/pdp-systems/rvhart/internal/loader"
	"github.com/pdp-systems/rvhart/internal/memmap"
	"github.com/pdp-systems/rvhart/internal/testbench"
	"github.com/pdp-systems/rvhart/logger"
	"github.com/pdp-systems/rvhart/paths"
	"github.com/pdp-systems/rvhart/rverr"
	"github.com/schollz/progressbar/v3"
)

// capturesDir is where per-case trace captures are written, relative to
// the directory a manifest was loaded from, so captures travel with the
// corpus they belong to rather than landing in the user's global prefs
// directory.
const capturesDir = "captures"

// Result is the outcome of running a single Case.
type Result struct {
	Case        Case
	Pass        bool
	Mismatches  []string
	Err         error
	CapturePath string
}

// Run executes every Case in m, resolving relative image paths against
// manifestDir, and returns one Result per case in order.
func Run(m *Manifest, manifestDir string, output io.Writer) []Result {
	results := make([]Result, len(m.Cases))

	bar := progressbar.NewOptions(len(m.Cases),
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription("running regression cases"),
	)

	for i, c := range m.Cases {
		results[i] = runOne(c, manifestDir)
		_ = bar.Add(1)
	}
	fmt.Fprintln(output)

	return results
}

func runOne(c Case, manifestDir string) Result {
	memSize := c.MemSize
	if memSize == 0 {
		memSize = 64 * 1024
	}

	var tb testbench.Device
	mem, err := memmap.New(memmap.Region{Name: "testbench", Base: testbench.Base, Size: testbench.Size, Device: &tb})
	if err != nil {
		return Result{Case: c, Err: err}
	}

	h := hart.New(mem, 0, 0, memSize)

	var capturePath string
	if c.Capture {
		capturePath = filepath.Join(manifestDir, capturesDir, paths.UniqueFilename(c.Name, "")+".trace")
		if f, err := createCaptureFile(capturePath); err == nil {
			defer f.Close()
			h.Trace = hart.NewWriterTrace(f)
		} else {
			logger.Logf(logger.Allow, "regression", "could not open capture file for %s: %v", c.Name, err)
			capturePath = ""
		}
	}

	imagePath := c.Image
	if !filepath.IsAbs(imagePath) {
		imagePath = filepath.Join(manifestDir, imagePath)
	}
	if err := loader.LoadFile(h, imagePath, 0, memSize); err != nil {
		return Result{Case: c, Err: err, CapturePath: capturePath}
	}

	steps := c.Steps
	if steps == 0 {
		steps = 10000
	}
	for i := 0; i < steps; i++ {
		h.Step()
		if tb.Halted {
			break
		}
	}

	var mismatches []string
	for name, want := range c.Expect {
		idx, ok := hart.RegisterIndex(name)
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("unknown register %q in expectation", name))
			continue
		}
		if got := h.Reg(idx); got != want {
			mismatches = append(mismatches, fmt.Sprintf("%s = %#08x, want %#08x", name, got, want))
		}
	}

	return Result{Case: c, Pass: len(mismatches) == 0, Mismatches: mismatches, CapturePath: capturePath}
}

func createCaptureFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

// Summarize writes a one-line-per-case report and returns an error
// naming every failed case if any failed.
func Summarize(results []Result, output io.Writer) error {
	var failed []string
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(output, "%-24s ERROR  %v\n", r.Case.Name, r.Err)
			failed = append(failed, r.Case.Name)
			continue
		}
		if r.Pass {
			fmt.Fprintf(output, "%-24s PASS\n", r.Case.Name)
			continue
		}
		fmt.Fprintf(output, "%-24s FAIL\n", r.Case.Name)
		for _, m := range r.Mismatches {
			fmt.Fprintf(output, "  %s\n", m)
		}
		if r.CapturePath != "" {
			fmt.Fprintf(output, "  trace captured at %s\n", r.CapturePath)
		}
		failed = append(failed, r.Case.Name)
	}

	if len(failed) > 0 {
		return rverr.New(rverr.CaseRunFailed, strings.Join(failed, ", "))
	}
	return nil
}
