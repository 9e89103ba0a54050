package hart

// Memory is the external collaborator a Hart fetches from and stores to
// for any address outside its own fast-path RAM. Reads signal a bus
// error by returning ok=false; writes signal failure by returning
// false. A write may also raise a host-halt condition -- the Hart does
// not interpret that itself, it is the concern of whatever sits behind
// Memory (see internal/testbench).
type Memory interface {
	R8(addr uint32) (val uint8, ok bool)
	R16(addr uint32) (val uint16, ok bool)
	R32(addr uint32) (val uint32, ok bool)
	W8(addr uint32, val uint8) (ok bool)
	W16(addr uint32, val uint16) (ok bool)
	W32(addr uint32, val uint32) (ok bool)
}

// ram is the Hart's owned fast-path buffer covering [base, top). It
// short-circuits the Memory interface for any address in range, the
// same way the ARM coprocessor's MAM/RNG/timer peripherals short
// circuit SharedMemory.MapAddress before falling back to an "illegal
// access" -- except here the fast path is RAM and the fallback is a
// fully general Memory, not an error.
type ram struct {
	words []uint32
	base  uint32
	top   uint32
}

func newRAM(base, size uint32) ram {
	if base&0x3 != 0 || size&0x3 != 0 {
		panic("hart: ram base and size must be 4-byte aligned")
	}
	return ram{
		words: make([]uint32, size/4),
		base:  base,
		top:   base + size,
	}
}

func (m *ram) contains(addr uint32) bool {
	return addr >= m.base && addr < m.top
}

func (m *ram) reset() {
	for i := range m.words {
		m.words[i] = 0
	}
}

func (m *ram) idx(addr uint32) uint32 {
	return (addr - m.base) >> 2
}

func (m *ram) r8(addr uint32) uint8 {
	w := m.words[m.idx(addr)]
	return uint8(w >> (8 * (addr & 0x3)))
}

func (m *ram) w8(addr uint32, v uint8) {
	i := m.idx(addr)
	shift := 8 * (addr & 0x3)
	m.words[i] = (m.words[i] &^ (0xff << shift)) | (uint32(v) << shift)
}

func (m *ram) r16(addr uint32) uint16 {
	w := m.words[m.idx(addr)]
	return uint16(w >> (8 * (addr & 0x2)))
}

func (m *ram) w16(addr uint32, v uint16) {
	i := m.idx(addr)
	shift := 8 * (addr & 0x2)
	m.words[i] = (m.words[i] &^ (0xffff << shift)) | (uint32(v) << shift)
}

func (m *ram) r32(addr uint32) uint32 {
	return m.words[m.idx(addr)]
}

func (m *ram) w32(addr uint32, v uint32) {
	m.words[m.idx(addr)] = v
}

// r8 reads a byte, trying the fast path before falling back to mem.
func (h *Hart) r8(addr uint32) (uint8, bool) {
	if h.ram.contains(addr) {
		return h.ram.r8(addr), true
	}
	return h.mem.R8(addr)
}

func (h *Hart) w8(addr uint32, v uint8) bool {
	if h.ram.contains(addr) {
		h.ram.w8(addr, v)
		return true
	}
	return h.mem.W8(addr, v)
}

func (h *Hart) r16(addr uint32) (uint16, bool) {
	if h.ram.contains(addr) {
		return h.ram.r16(addr), true
	}
	return h.mem.R16(addr)
}

func (h *Hart) w16(addr uint32, v uint16) bool {
	if h.ram.contains(addr) {
		h.ram.w16(addr, v)
		return true
	}
	return h.mem.W16(addr, v)
}

func (h *Hart) r32(addr uint32) (uint32, bool) {
	if h.ram.contains(addr) {
		return h.ram.r32(addr), true
	}
	return h.mem.R32(addr)
}

func (h *Hart) w32(addr uint32, v uint32) bool {
	if h.ram.contains(addr) {
		h.ram.w32(addr, v)
		return true
	}
	return h.mem.W32(addr, v)
}

// LoadProgram copies bytes into the Hart's fast-path RAM starting at
// offset bytes from ram_base. It is a convenience for external loaders
// (see internal/loader) and is not part of the architectural state
// machine -- callers should only use it before the first Step, or
// while reproducing the self-modifying-code edge case is not a concern.
func (h *Hart) LoadProgram(offset uint32, data []byte) bool {
	for i, b := range data {
		if !h.w8(h.ram.base+offset+uint32(i), b) {
			return false
		}
	}
	return true
}
