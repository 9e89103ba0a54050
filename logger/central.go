// Package logger implements a small central ring-buffer log, used across
// the simulator for conditions worth recording but not worth surfacing as
// an error: a program image loaded into RAM, an access to an unmapped
// address in the memory map, a session-prefs file or histogram that could
// not be saved. It deliberately has nothing to do with architectural
// traps, which a Hart records in its own CSRs, not in this log.
package logger

import (
	"io"
)

// Permission implementations indicate whether the environment making a log
// request is allowed to create new log entries.
type Permission interface {
	AllowLogging() bool
}

type allow struct{}

func (allow) AllowLogging() bool {
	return true
}

// Allow indicates that the logging request should always be allowed.
var Allow Permission = allow{}

// only one central log for the whole program; there's no need for more.
var central = newLogger(maxCentral)

// maximum number of entries retained by the central logger.
const maxCentral = 256

// Log adds an entry to the central logger.
func Log(perm Permission, tag, detail string) {
	if perm == Allow || perm.AllowLogging() {
		central.log(tag, detail)
	}
}

// Logf adds a formatted entry to the central logger.
func Logf(perm Permission, tag, format string, args ...interface{}) {
	if perm == Allow || perm.AllowLogging() {
		central.logf(tag, format, args...)
	}
}

// Clear removes every entry from the central logger.
func Clear() {
	central.clear()
}

// Write dumps every entry in the central logger to output.
func Write(output io.Writer) {
	central.write(output)
}

// WriteRecent writes only the entries added since the last call to
// WriteRecent.
func WriteRecent(output io.Writer) {
	central.writeRecent(output)
}

// Tail writes the most recent number entries to output.
func Tail(output io.Writer, number int) {
	central.tail(output, number)
}

// SetEcho makes every future log entry also get written to output
// immediately, on top of being buffered. Pass nil to disable echoing.
func SetEcho(output io.Writer) {
	central.setEcho(output)
}

// BorrowLog gives f exclusive access to the central logger's entries.
func BorrowLog(f func([]Entry)) {
	central.borrowLog(f)
}
