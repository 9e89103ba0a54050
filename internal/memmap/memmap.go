// Package memmap composes a hart.Memory out of a list of address-ranged
// regions, the way the ARM coprocessor's MapAddress chains MAM/RNG/timer
// peripheral lookups before falling back to an illegal access: each
// region claims a [base, base+size) window, and a lookup tries them in
// registration order, falling through to an unmapped-address miss if
// none claim the address.
package memmap

import (
	"sort"

	"github.com/pdp-systems/rvhart/logger"
	"github.com/pdp-systems/rvhart/rverr"
)

// Device is anything that can be mapped into a Region: RAM, the
// testbench halt device, a future UART or timer peripheral.
type Device interface {
	R8(addr uint32) (uint8, bool)
	R16(addr uint32) (uint16, bool)
	R32(addr uint32) (uint32, bool)
	W8(addr uint32, val uint8) bool
	W16(addr uint32, val uint16) bool
	W32(addr uint32, val uint32) bool
}

// Region is a named, address-ranged binding of a Device into the map.
type Region struct {
	Name   string
	Base   uint32
	Size   uint32
	Device Device
}

func (r Region) top() uint32 {
	return r.Base + r.Size
}

func (r Region) contains(addr uint32) bool {
	return addr >= r.Base && addr < r.top()
}

// Map implements hart.Memory by dispatching to whichever Region's window
// contains the requested address.
type Map struct {
	regions []Region
}

// New builds a Map from regions, which must not overlap and must each be
// at least naturally aligned to 4 bytes. Regions are tried in the order
// they're given, which matters only if callers register overlapping
// windows on purpose (they shouldn't -- New rejects that).
func New(regions ...Region) (*Map, error) {
	sorted := make([]Region, len(regions))
	copy(sorted, regions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Base < sorted[j].Base })

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Base < sorted[i-1].top() {
			return nil, rverr.New(rverr.RegionOverlap, sorted[i].Name, sorted[i-1].Name)
		}
	}
	for _, r := range regions {
		if r.Base&0x3 != 0 {
			return nil, rverr.New(rverr.RegionMisaligned, r.Name, r.Base, 4)
		}
	}

	return &Map{regions: regions}, nil
}

// Regions returns the regions the Map was built from, for diagnostics
// (see internal/memviz).
func (m *Map) Regions() []Region {
	return m.regions
}

func (m *Map) find(addr uint32) Device {
	for _, r := range m.regions {
		if r.contains(addr) {
			return r.Device
		}
	}
	return nil
}

func (m *Map) miss(op string, addr uint32) {
	logger.Logf(logger.Allow, "memmap", "%s to unmapped address %#08x", op, addr)
}

func (m *Map) R8(addr uint32) (uint8, bool) {
	if d := m.find(addr); d != nil {
		return d.R8(addr)
	}
	m.miss("read8", addr)
	return 0, false
}

func (m *Map) R16(addr uint32) (uint16, bool) {
	if d := m.find(addr); d != nil {
		return d.R16(addr)
	}
	m.miss("read16", addr)
	return 0, false
}

func (m *Map) R32(addr uint32) (uint32, bool) {
	if d := m.find(addr); d != nil {
		return d.R32(addr)
	}
	m.miss("read32", addr)
	return 0, false
}

func (m *Map) W8(addr uint32, val uint8) bool {
	if d := m.find(addr); d != nil {
		return d.W8(addr, val)
	}
	m.miss("write8", addr)
	return false
}

func (m *Map) W16(addr uint32, val uint16) bool {
	if d := m.find(addr); d != nil {
		return d.W16(addr, val)
	}
	m.miss("write16", addr)
	return false
}

func (m *Map) W32(addr uint32, val uint32) bool {
	if d := m.find(addr); d != nil {
		return d.W32(addr, val)
	}
	m.miss("write32", addr)
	return false
}
