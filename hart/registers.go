package hart

// NumRegisters is the size of the general register file (x0-x31).
const NumRegisters = 32

// registerFile is the 32-entry general register file. Register 0 is
// architecturally hardwired to zero; writes to it are suppressed at
// commit time rather than inside the register file itself, so that the
// decoder is free to compute a value destined for x0 without special
// casing.
type registerFile struct {
	regs [NumRegisters]uint32
}

func (r *registerFile) get(n uint32) uint32 {
	return r.regs[n&0x1f]
}

// set writes a register, silently discarding writes to x0.
func (r *registerFile) set(n uint32, v uint32) {
	if n != 0 {
		r.regs[n&0x1f] = v
	}
}

func (r *registerFile) reset() {
	for i := range r.regs {
		r.regs[i] = 0
	}
}

// friendlyRegisterNames gives the ABI names used by the trace formatter.
var friendlyRegisterNames = [NumRegisters]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegisterIndex resolves an ABI name ("a0", "sp", "x14", ...) to its
// register number, for collaborators (the regression runner, the CLI)
// that need to name a register without importing decoder internals.
func RegisterIndex(name string) (uint32, bool) {
	for i, n := range friendlyRegisterNames {
		if n == name {
			return uint32(i), true
		}
	}
	if len(name) > 1 && name[0] == 'x' {
		n := uint32(0)
		for _, c := range name[1:] {
			if c < '0' || c > '9' {
				return 0, false
			}
			n = n*10 + uint32(c-'0')
		}
		if n < NumRegisters {
			return n, true
		}
	}
	return 0, false
}
