// Command rvhart drives the simulator from the command line: run a flat
// binary to completion, step through it interactively, inspect how its
// memory map is laid out, or check a corpus of programs against a YAML
// manifest of expected register state.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdp-systems/rvhart/hart"
	"github.com/pdp-systems/rvhart/internal/loader"
	"github.com/pdp-systems/rvhart/internal/memmap"
	"github.com/pdp-systems/rvhart/internal/memviz"
	"github.com/pdp-systems/rvhart/internal/perfplot"
	"github.com/pdp-systems/rvhart/internal/regression"
	"github.com/pdp-systems/rvhart/internal/statsview"
	"github.com/pdp-systems/rvhart/internal/termio"
	"github.com/pdp-systems/rvhart/internal/testbench"
	"github.com/pdp-systems/rvhart/logger"
	"github.com/pdp-systems/rvhart/modalflag"
	"github.com/pdp-systems/rvhart/paths"
	"github.com/pdp-systems/rvhart/prefs"
	"github.com/pdp-systems/rvhart/rverr"
)

func main() {
	logger.SetEcho(os.Stderr)

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	md := modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.AddSubModes("RUN", "DEBUG", "INSPECT", "REGRESS")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	switch md.Mode() {
	case "RUN":
		return runMode(&md)
	case "DEBUG":
		return debugMode(&md)
	case "INSPECT":
		return inspectMode(&md)
	case "REGRESS":
		return regressMode(&md)
	default:
		return runMode(&md)
	}
}

// sessionPrefs are the options persisted between invocations of any mode
// that builds a Hart: RAM size, step budget, trace, and the testbench's
// CPU-return convention. They're registered against a prefs.Disk at
// paths.ResourcePath("session.prefs") and bound to flags of the same name,
// so the flag value both seeds and overrides the persisted default.
type sessionPrefs struct {
	disk    *prefs.Disk
	memSize *prefs.Int
	cycles  *prefs.Int
	trace   *prefs.Bool
	cpuret  *prefs.Bool
}

func openSessionPrefs() (*sessionPrefs, error) {
	disk, err := prefs.NewDisk(paths.ResourcePath("session.prefs"))
	if err != nil {
		return nil, rverr.New(rverr.PrefsFileError, err.Error())
	}

	sp := &sessionPrefs{
		disk:    disk,
		memSize: &prefs.Int{},
		cycles:  &prefs.Int{},
		trace:   &prefs.Bool{},
		cpuret:  &prefs.Bool{},
	}

	_ = sp.memSize.Set(64 * 1024)
	_ = sp.cycles.Set(100000)

	if err := disk.Add("session.memsize", sp.memSize); err != nil {
		return nil, err
	}
	if err := disk.Add("session.cycles", sp.cycles); err != nil {
		return nil, err
	}
	if err := disk.Add("session.trace", sp.trace); err != nil {
		return nil, err
	}
	if err := disk.Add("session.cpuret", sp.cpuret); err != nil {
		return nil, err
	}

	// A second, full-file pass: Add only applies a key's own line, so this
	// is what actually exercises defunct-key filtering for anything left
	// over from an older session.prefs format.
	if err := disk.Load(false); err != nil {
		return nil, rverr.New(rverr.PrefsFileError, err.Error())
	}

	return sp, nil
}

func (sp *sessionPrefs) save() {
	if err := sp.disk.Save(); err != nil {
		logger.Logf(logger.Allow, "rvhart", "could not save session prefs: %v", err)
	}
}

func runMode(md *modalflag.Modes) error {
	sp, err := openSessionPrefs()
	if err != nil {
		return err
	}

	md.NewMode()
	bin := md.AddString("bin", "", "flat binary image to load")
	memSize := md.AddInt("memsize", sp.memSize.Get().(int), "RAM size in bytes")
	offset := md.AddInt("offset", 0, "byte offset within RAM to load the image at")
	resetVector := md.AddInt("reset", 0, "address of the first instruction")
	cycles := md.AddInt("cycles", sp.cycles.Get().(int), "maximum instructions to execute")
	trace := md.AddBool("trace", sp.trace.Get().(bool), "print a trace line for every instruction")
	cpuret := md.AddBool("cpuret", sp.cpuret.Get().(bool), "exit code is the testbench's latched halt code")
	memvizOut := md.AddString("memviz", "", "write a DOT graph of the memory map to this path and exit")
	perfplotOut := md.AddString("perfplot", "", "write an instruction-class histogram PNG to this path")
	stats := md.AddBool("stats", false, "launch a live statsview dashboard while running")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if *bin == "" && len(md.RemainingArgs()) > 0 {
		*bin = md.GetArg(0)
	}

	var tb testbench.Device
	mem, err := memmap.New(memmap.Region{Name: "testbench", Base: testbench.Base, Size: testbench.Size, Device: &tb})
	if err != nil {
		return err
	}

	if *memvizOut != "" {
		return writeMemviz(*memvizOut, mem)
	}

	if *bin == "" {
		return rverr.New(rverr.ImageCannotOpen, "(no --bin given)")
	}

	h := hart.New(mem, uint32(*resetVector), 0, uint32(*memSize))

	if *trace {
		h.Trace = hart.NewWriterTrace(os.Stdout)
	}

	if err := loader.LoadFile(h, *bin, uint32(*offset), uint32(*memSize)); err != nil {
		return err
	}

	hist := perfplot.NewHistogram()
	h.StepHook = func(pc, instr, size uint32) {
		hist.Count(hart.InstructionClass(instr, size))
	}
	if *stats {
		statsview.Launch(os.Stdout, nil)
	}

	steps := *cycles
	for i := 0; i < steps; i++ {
		h.Step()
		if tb.Halted {
			break
		}
	}

	if *perfplotOut != "" {
		if err := hist.Save(*perfplotOut); err != nil {
			logger.Logf(logger.Allow, "rvhart", "could not save histogram: %v", err)
		}
	}

	_ = sp.memSize.Set(*memSize)
	_ = sp.cycles.Set(*cycles)
	_ = sp.trace.Set(*trace)
	_ = sp.cpuret.Set(*cpuret)
	sp.save()

	_, _ = os.Stdout.Write(tb.Console)

	if err := tb.Err(); err != nil {
		if *cpuret {
			os.Exit(int(tb.Code))
		}
		return err
	}

	return nil
}

func debugMode(md *modalflag.Modes) error {
	sp, err := openSessionPrefs()
	if err != nil {
		return err
	}

	md.NewMode()
	bin := md.AddString("bin", "", "flat binary image to load")
	memSize := md.AddInt("memsize", sp.memSize.Get().(int), "RAM size in bytes")
	resetVector := md.AddInt("reset", 0, "address of the first instruction")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if *bin == "" && len(md.RemainingArgs()) > 0 {
		*bin = md.GetArg(0)
	}
	if *bin == "" {
		return rverr.New(rverr.ImageCannotOpen, "(no --bin given)")
	}

	var tb testbench.Device
	mem, err := memmap.New(memmap.Region{Name: "testbench", Base: testbench.Base, Size: testbench.Size, Device: &tb})
	if err != nil {
		return err
	}

	h := hart.New(mem, uint32(*resetVector), 0, uint32(*memSize))
	h.Trace = hart.NewWriterTrace(os.Stdout)

	if err := loader.LoadFile(h, *bin, 0, uint32(*memSize)); err != nil {
		return err
	}

	term, err := termio.Open(os.Stdin)
	if err != nil {
		return err
	}
	if err := term.EnterCbreak(); err != nil {
		return err
	}
	defer term.CleanUp()

	fmt.Fprintln(os.Stdout, "s: step, c: continue to halt, q: quit")

	for {
		key, err := term.ReadKey()
		if err != nil {
			return err
		}

		switch key {
		case 'q', 'Q':
			return nil
		case 'c', 'C':
			for !tb.Halted {
				h.Step()
			}
			fmt.Fprintln(os.Stdout, tb.Err())
			return nil
		default:
			h.Step()
			if tb.Halted {
				fmt.Fprintln(os.Stdout, tb.Err())
				return nil
			}
		}
	}
}

func inspectMode(md *modalflag.Modes) error {
	md.NewMode()
	out := md.AddString("out", "", "write the DOT graph here instead of stdout")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	var tb testbench.Device
	mem, err := memmap.New(memmap.Region{Name: "testbench", Base: testbench.Base, Size: testbench.Size, Device: &tb})
	if err != nil {
		return err
	}

	return writeMemviz(*out, mem)
}

func writeMemviz(path string, mem *memmap.Map) error {
	if path == "" {
		memviz.Render(os.Stdout, mem.Regions())
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	memviz.Render(f, mem.Regions())
	return nil
}

func regressMode(md *modalflag.Modes) error {
	md.NewMode()
	manifest := md.AddString("manifest", "", "YAML manifest of regression cases")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return nil
	case modalflag.ParseError:
		return err
	}

	if *manifest == "" && len(md.RemainingArgs()) > 0 {
		*manifest = md.GetArg(0)
	}
	if *manifest == "" {
		return rverr.New(rverr.CaseFileCannotOpen, "(no --manifest given)")
	}

	m, err := regression.LoadManifest(*manifest)
	if err != nil {
		return err
	}

	results := regression.Run(m, filepath.Dir(*manifest), os.Stdout)
	return regression.Summarize(results, os.Stdout)
}

