package hart

import (
	"fmt"
	"io"
)

// TraceSink receives one record per instruction retired, plus an
// additional record whenever a trap is taken. A Hart does no
// formatting itself; it is entirely the sink's job, the same
// separation of concerns as the disassembly package's entry consumers
// in the teacher codebase.
type TraceSink interface {
	Step(pc uint32, instr uint32, size uint32, res stepResult)
	Trap(cause uint32, pc uint32, target uint32)
}

// WriterTrace formats each Step/Trap as a single line of text onto an
// io.Writer, sized the way a terminal-fed disassembly trace would be:
// address, raw encoding, and effects.
type WriterTrace struct {
	w io.Writer
}

// NewWriterTrace returns a TraceSink that writes human-readable trace
// lines to w.
func NewWriterTrace(w io.Writer) *WriterTrace {
	return &WriterTrace{w: w}
}

func (t *WriterTrace) Step(pc uint32, instr uint32, size uint32, res stepResult) {
	if size == 4 {
		fmt.Fprintf(t.w, "%08x: %08x", pc, instr)
	} else {
		fmt.Fprintf(t.w, "%08x:     %04x", pc, instr)
	}

	if res.rdValid && res.rdNum != 0 {
		fmt.Fprintf(t.w, "  %s=%08x", friendlyRegisterNames[res.rdNum], res.rdValue)
	}
	if res.nextPCSet && !res.exception {
		fmt.Fprintf(t.w, "  -> %08x", res.nextPC)
	}
	fmt.Fprintln(t.w)
}

func (t *WriterTrace) Trap(cause uint32, pc uint32, target uint32) {
	fmt.Fprintf(t.w, "          trap %s at %08x, entering at %08x\n", causeName(cause), pc, target)
}
