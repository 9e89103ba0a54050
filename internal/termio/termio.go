// Package termio puts the controlling terminal into cbreak mode for the
// interactive debug driver, so a single keypress (not a line) can drive
// one simulator step, the way easyterm.Terminal does for the debugger's
// own input loop.
package termio

import (
	"fmt"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// Terminal wraps the controlling terminal's raw/cooked mode switch.
type Terminal struct {
	input   *os.File
	canAttr unix.Termios
	cbreak  unix.Termios
	inRaw   bool
}

// Open prepares Terminal against input, capturing its current ("can",
// canonical) attributes so CleanUp can restore them.
func Open(input *os.File) (*Terminal, error) {
	if input == nil {
		return nil, fmt.Errorf("termio: input file is required")
	}

	t := &Terminal{input: input}
	if err := termios.Tcgetattr(t.input.Fd(), &t.canAttr); err != nil {
		return nil, fmt.Errorf("termio: tcgetattr: %w", err)
	}
	t.cbreak = t.canAttr
	termios.Cfmakecbreak(&t.cbreak)

	return t, nil
}

// EnterCbreak switches the terminal to cbreak mode: input is available
// key-by-key, without waiting for a newline, and without local echo
// suppressing what the debug loop wants to print itself.
func (t *Terminal) EnterCbreak() error {
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.cbreak); err != nil {
		return fmt.Errorf("termio: enter cbreak: %w", err)
	}
	t.inRaw = true
	return nil
}

// CleanUp restores the terminal's original canonical attributes. Safe to
// call even if EnterCbreak was never called.
func (t *Terminal) CleanUp() error {
	if !t.inRaw {
		return nil
	}
	t.inRaw = false
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.canAttr); err != nil {
		return fmt.Errorf("termio: restore: %w", err)
	}
	return nil
}

// ReadKey blocks for a single byte of input.
func (t *Terminal) ReadKey() (byte, error) {
	buf := make([]byte, 1)
	n, err := t.input.Read(buf)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("termio: read returned no bytes")
	}
	return buf[0], nil
}
