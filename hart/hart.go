// Package hart implements a bit-accurate functional interpreter of a
// single RISC-V hardware thread: the 32-bit base integer ISA plus the
// M, A, and C standard extensions, the Zba/Zbb/Zbc/Zbs bit-manipulation
// extensions, Zcmp stack-manipulation compressed instructions, a pair
// of custom bit-field-extract instructions, and machine-mode CSRs and
// trap handling.
//
// The fetch/decode/execute loop follows the shape of a small embedded
// CPU interpreter: a Hart owns its register file and an address-range-
// gated fast-path RAM buffer, delegates everything else to an external
// Memory, and exposes Step as its only mutator.
package hart

// stepResult collects the rd and PC effects a single instruction
// computes. They are not committed until the end of Step -- this is
// what lets an exception detected partway through decoding cleanly
// discard them. The Zcmp push/pop/move instructions write their
// registers directly, and only once all of their memory accesses have
// succeeded; see execute32 for the other effects applied directly.
type stepResult struct {
	rdNum      uint32
	rdValue    uint32
	rdValid    bool
	nextPC     uint32
	nextPCSet  bool
	exception  bool
	cause      uint32
}

// Hart is a single RISC-V hardware thread: register file, program
// counter, load-reservation flag, CSR bank, and an owned fast-path RAM
// region backed by an external Memory for everything else.
type Hart struct {
	regs          registerFile
	pc            uint32
	loadReserved  bool
	csr           csrFile
	ram           ram
	mem           Memory
	resetVector   uint32

	// Trace, when non-nil, receives one formatted line per Step plus an
	// additional line whenever a trap is taken; a Step that traps on a
	// misaligned PC, before fetching, produces only the trap line. See
	// trace.go.
	Trace TraceSink

	// StepHook, when non-nil, is called after every committed Step with
	// the raw instruction word and its size in bytes (0 on a fetch
	// fault); it is not called for a Step that traps on a misaligned PC. It exists for collaborators like internal/perfplot that
	// want per-instruction statistics from outside this package, where
	// TraceSink's stepResult parameter can't be named.
	StepHook func(pc, instr, size uint32)
}

// New constructs a Hart with ram_base/ram_size bytes of owned fast-path
// RAM and the given reset vector, and resets it to its initial state.
func New(mem Memory, resetVector, ramBase, ramSize uint32) *Hart {
	h := &Hart{
		mem:         mem,
		ram:         newRAM(ramBase, ramSize),
		resetVector: resetVector,
	}
	h.Reset()
	return h
}

// Reset reinitialises all architectural state: PC to the reset vector,
// registers to zero, the load-reservation flag cleared, and all CSRs
// to zero except their read-only constants. It does not clear RAM.
func (h *Hart) Reset() {
	h.regs.reset()
	h.pc = h.resetVector
	h.loadReserved = false
	h.csr.reset()
}

// PC returns the current program counter.
func (h *Hart) PC() uint32 { return h.pc }

// Reg returns the current value of general register n (0-31).
func (h *Hart) Reg(n uint32) uint32 { return h.regs.get(n) }

// CSR returns the current value of the CSR at addr, or ok=false if the
// address is unrecognised or forbidden at the hart's current privilege.
func (h *Hart) CSR(addr uint32) (uint32, bool) { return h.csr.read(addr, true) }

// Privilege returns the hart's current privilege level (PrivM or PrivU).
func (h *Hart) Privilege() uint32 { return h.csr.priv }

// Snapshot returns a deep-enough copy of the Hart suitable for
// save-state/rewind use, mirroring the Snapshot() method pattern used
// throughout the teacher codebase (e.g. hardware/cpu.CPU.Snapshot).
func (h *Hart) Snapshot() *Hart {
	n := *h
	n.ram.words = make([]uint32, len(h.ram.words))
	copy(n.ram.words, h.ram.words)
	return &n
}

// Step fetches, decodes, and executes exactly one instruction,
// committing its side effects in the order mandated by spec: on
// exception, override the next PC with the trap target and discard the
// register write; otherwise commit PC, then the destination register
// (skipping x0), then let the CSR file advance its counters and apply
// any deferred CSR write.
func (h *Hart) Step() {
	pc := h.pc

	if pc&0x1 != 0 {
		target := h.csr.trapEnter(CauseInstrAlign, pc)
		if h.Trace != nil {
			h.Trace.Trap(CauseInstrAlign, pc, target)
		}
		h.pc = target
		h.csr.step()
		return
	}

	lo, loOK := h.r16(pc)
	var instr uint32
	var size uint32
	var fetchFault bool

	if !loOK {
		fetchFault = true
	} else if lo&0x3 == 0x3 {
		hi, hiOK := h.r16(pc + 2)
		if !hiOK {
			fetchFault = true
		} else {
			instr = uint32(lo) | uint32(hi)<<16
			size = 4
		}
	} else {
		instr = uint32(lo)
		size = 2
	}

	var res stepResult
	if fetchFault {
		res.exception = true
		res.cause = CauseInstrFault
	} else if size == 4 {
		res = execute32(h, instr)
	} else {
		res = execute16(h, instr)
	}

	if h.Trace != nil {
		h.Trace.Step(pc, instr, size, res)
	}

	if res.exception {
		target := h.csr.trapEnter(res.cause, pc)
		if h.Trace != nil {
			h.Trace.Trap(res.cause, pc, target)
		}
		res.nextPC = target
		res.nextPCSet = true
		res.rdValid = false
	}

	if res.nextPCSet {
		h.pc = res.nextPC
	} else {
		h.pc = pc + size
	}

	if res.rdValid && res.rdNum != 0 {
		h.regs.set(res.rdNum, res.rdValue)
	}

	h.csr.step()

	if h.StepHook != nil {
		h.StepHook(pc, instr, size)
	}
}
