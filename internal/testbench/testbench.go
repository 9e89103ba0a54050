// Package testbench implements the host-halt MMIO device: a 12-byte
// window mapped at a fixed address that a running program writes to in
// order to stop the simulator and report a pass/fail code, the same
// role the ARM coprocessor's memoryFault plays in signalling a
// terminal condition back out through a typed value rather than a
// panic (see memory_faults.go in the ARM coprocessor).
package testbench

import "fmt"

// Base is the address the host-halt device is conventionally mapped at.
const Base = 0x80000000

// Size is the width of the device's MMIO window.
const Size = 12

const (
	regHalt = 0 // write non-zero here to stop the simulator
	regCode = 4 // exit code latched alongside the halt write
	regPutc = 8 // write a byte here to emit it to the testbench console
)

// HaltError is returned by Err once the program has requested a halt;
// the halting write itself succeeds and only sets Halted. It is not a
// memory fault; the caller (the driver loop, not the Hart) is expected
// to check Halted after every Step and stop cleanly.
type HaltError struct {
	Code uint32
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("testbench: halt requested with code %d", e.Code)
}

// Device implements memmap.Device. Halted is set once a halt write has
// been observed; subsequent writes to regCode are ignored so a program
// that halts twice doesn't overwrite the first exit code.
type Device struct {
	Halted  bool
	Code    uint32
	Console []byte
}

func (d *Device) R8(addr uint32) (uint8, bool) {
	return uint8(d.read(addr)), true
}

func (d *Device) R16(addr uint32) (uint16, bool) {
	return uint16(d.read(addr)), true
}

func (d *Device) R32(addr uint32) (uint32, bool) {
	return d.read(addr), true
}

func (d *Device) read(addr uint32) uint32 {
	switch addr - Base {
	case regHalt:
		if d.Halted {
			return 1
		}
		return 0
	case regCode:
		return d.Code
	default:
		return 0
	}
}

func (d *Device) W8(addr uint32, val uint8) bool {
	return d.write(addr, uint32(val))
}

func (d *Device) W16(addr uint32, val uint16) bool {
	return d.write(addr, uint32(val))
}

func (d *Device) W32(addr uint32, val uint32) bool {
	return d.write(addr, val)
}

func (d *Device) write(addr uint32, val uint32) bool {
	switch addr - Base {
	case regHalt:
		if val != 0 && !d.Halted {
			d.Halted = true
		}
		return true
	case regCode:
		if !d.Halted {
			d.Code = val
		}
		return true
	case regPutc:
		d.Console = append(d.Console, byte(val))
		return true
	default:
		return false
	}
}

// Err returns a *HaltError if the device has latched a halt request,
// suitable for checking after every Step.
func (d *Device) Err() error {
	if !d.Halted {
		return nil
	}
	return &HaltError{Code: d.Code}
}
