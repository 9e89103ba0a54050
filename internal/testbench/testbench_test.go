package testbench_test

import (
	"testing"

	"github.com/pdp-systems/rvhart/internal/testbench"
)

func TestHaltLatchesCode(t *testing.T) {
	var d testbench.Device

	d.W32(testbench.Base+4, 42) // code
	d.W32(testbench.Base, 1)    // halt

	if err := d.Err(); err == nil {
		t.Fatalf("expected a halt error")
	} else if he, ok := err.(*testbench.HaltError); !ok || he.Code != 42 {
		t.Fatalf("got %v, want HaltError{Code: 42}", err)
	}
}

func TestHaltIgnoresSecondWrite(t *testing.T) {
	var d testbench.Device

	d.W32(testbench.Base+4, 1)
	d.W32(testbench.Base, 1)
	d.W32(testbench.Base+4, 99)

	if d.Code != 1 {
		t.Fatalf("code = %d, want 1 (first halt wins)", d.Code)
	}
}

func TestConsoleAccumulates(t *testing.T) {
	var d testbench.Device
	d.W8(testbench.Base+8, 'h')
	d.W8(testbench.Base+8, 'i')
	if string(d.Console) != "hi" {
		t.Fatalf("console = %q, want hi", d.Console)
	}
}
