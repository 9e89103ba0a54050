package logger_test

import (
	"strings"
	"testing"

	"github.com/pdp-systems/rvhart/logger"
)

func TestLogAndTail(t *testing.T) {
	logger.Clear()
	w := &strings.Builder{}

	logger.Write(w)
	if w.String() != "" {
		t.Fatalf("expected empty log, got %q", w.String())
	}

	logger.Log(logger.Allow, "csr", "illegal address 0xfff probed")
	logger.Write(w)
	if w.String() != "csr: illegal address 0xfff probed\n" {
		t.Fatalf("unexpected log contents: %q", w.String())
	}

	w.Reset()
	logger.Log(logger.Allow, "loader", "image truncated at end of RAM")
	logger.Write(w)
	want := "csr: illegal address 0xfff probed\nloader: image truncated at end of RAM\n"
	if w.String() != want {
		t.Fatalf("log = %q, want %q", w.String(), want)
	}

	w.Reset()
	logger.Tail(w, 1)
	if w.String() != "loader: image truncated at end of RAM\n" {
		t.Fatalf("tail(1) = %q", w.String())
	}

	w.Reset()
	logger.Tail(w, 100)
	if w.String() != want {
		t.Fatalf("tail(100) = %q, want %q", w.String(), want)
	}
}

func TestLogRepeatCollapsing(t *testing.T) {
	logger.Clear()
	w := &strings.Builder{}

	logger.Log(logger.Allow, "testbench", "halt code 0")
	logger.Log(logger.Allow, "testbench", "halt code 0")
	logger.Log(logger.Allow, "testbench", "halt code 0")
	logger.Write(w)
	if w.String() != "testbench: halt code 0 (repeat x3)\n" {
		t.Fatalf("repeated entry = %q", w.String())
	}
}

type prohibit struct{ ok bool }

func (p prohibit) AllowLogging() bool { return p.ok }

func TestLogPermission(t *testing.T) {
	logger.Clear()
	w := &strings.Builder{}

	logger.Log(prohibit{ok: false}, "tag", "detail")
	logger.Write(w)
	if w.String() != "" {
		t.Fatalf("expected denied log entry to be dropped, got %q", w.String())
	}

	logger.Log(prohibit{ok: true}, "tag", "detail")
	logger.Write(w)
	if w.String() != "tag: detail\n" {
		t.Fatalf("expected allowed log entry, got %q", w.String())
	}
}

func TestLogf(t *testing.T) {
	logger.Clear()
	w := &strings.Builder{}

	logger.Logf(logger.Allow, "csr", "write to read-only csr 0x%03x ignored", 0xf11)
	logger.Write(w)
	if w.String() != "csr: write to read-only csr 0xf11 ignored\n" {
		t.Fatalf("logf result = %q", w.String())
	}
}
