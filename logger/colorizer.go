package logger

import (
	"io"
	"strings"

	"github.com/mitchellh/colorstring"
)

// Colorizer dims every line after the first in a single log write, so a
// multi-line detail (a register dump attached to a trap, say) reads as
// subordinate to its tag line.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred way of initialising a Colorizer.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements io.Writer.
func (c Colorizer) Write(p []byte) (n int, err error) {
	l := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	if len(l) == 0 {
		return 0, nil
	}

	m, err := c.out.Write([]byte(l[0] + "\n"))
	if err != nil {
		return m, err
	}
	n += m

	for _, s := range l[1:] {
		m, err = c.out.Write([]byte(colorstring.Color("[dim]"+s+"[reset]") + "\n"))
		if err != nil {
			return n + m, err
		}
		n += m
	}

	return n, nil
}
