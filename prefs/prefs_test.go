package prefs_test

import (
	"fmt"
	"os"
	"path"
	"testing"

	"github.com/pdp-systems/rvhart/prefs"
)

func getTmpPrefFile(t *testing.T) string {
	t.Helper()
	return path.Join(os.TempDir(), "rvhart_prefs_test")
}

func delTmpPrefFile(t *testing.T, fn string) {
	t.Helper()
	_ = os.Remove(fn)
}

func cmpTmpFile(t *testing.T, fn string, expected string) {
	t.Helper()

	data, err := os.ReadFile(fn)
	if err != nil {
		t.Fatalf("error reading tmp file: %v", err)
	}

	expected = fmt.Sprintf("%s\n%s", prefs.WarningBoilerPlate, expected)
	if expected != string(data) {
		t.Fatalf("prefs file mismatch:\nwant:\n%s\ngot:\n%s", expected, string(data))
	}
}

func TestDiskBool(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var v, w, x prefs.Bool
	if err := dsk.Add("countInhibitDefault", &v); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := dsk.Add("traceOn", &w); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := dsk.Add("haltOnIllegal", &x); err != nil {
		t.Fatalf("add: %v", err)
	}

	_ = v.Set(true)
	_ = w.Set("foo")
	_ = x.Set("true")

	if err := dsk.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	cmpTmpFile(t, fn, "countInhibitDefault :: true\nhaltOnIllegal :: true\ntraceOn :: false\n")
}

func TestDiskString(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var v prefs.String
	if err := dsk.Add("resetVectorLabel", &v); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = v.Set("_start")

	if err := dsk.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	cmpTmpFile(t, fn, "resetVectorLabel :: _start\n")
}

func TestDiskInt(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var v, w prefs.Int
	if err := dsk.Add("memSize", &v); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := dsk.Add("cycleLimit", &w); err != nil {
		t.Fatalf("add: %v", err)
	}

	_ = v.Set(65536)
	_ = w.Set("99")

	if err := dsk.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	cmpTmpFile(t, fn, "cycleLimit :: 99\nmemSize :: 65536\n")

	if err := v.Set("---"); err == nil {
		t.Fatalf("expected failure setting an Int from a non-numeric string")
	}
	if err := v.Set(1.0); err == nil {
		t.Fatalf("expected failure setting an Int from a float")
	}
}

func TestDiskGeneric(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var base, size uint32

	v := prefs.NewGeneric(
		func(s prefs.Value) error {
			_, err := fmt.Sscanf(s.(string), "%d,%d", &base, &size)
			return err
		},
		func() prefs.Value {
			return fmt.Sprintf("%d,%d", base, size)
		},
	)

	if err := dsk.Add("ramRegion", v); err != nil {
		t.Fatalf("add: %v", err)
	}

	base, size = 0, 65536

	if err := dsk.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	cmpTmpFile(t, fn, "ramRegion :: 0,65536\n")

	base, size = 0, 0

	if err := dsk.Load(false); err != nil {
		t.Fatalf("load: %v", err)
	}
	if base != 0 || size != 65536 {
		t.Fatalf("generic value not restored: base=%d size=%d", base, size)
	}
}

// writing a Bool and then a String from a different Disk instance must not
// clobber the results of the first write.
func TestDiskBoolAndString(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var v prefs.Bool
	if err := dsk.Add("traceOn", &v); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = v.Set(true)
	if err := dsk.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	dsk, err = prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var s prefs.String
	if err := dsk.Add("resetVectorLabel", &s); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = s.Set("_start")
	if err := dsk.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	cmpTmpFile(t, fn, "resetVectorLabel :: _start\ntraceOn :: true\n")
}

func TestMaxStringLength(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var s prefs.String
	if err := dsk.Add("label", &s); err != nil {
		t.Fatalf("add: %v", err)
	}
	_ = s.Set("123456789")
	if s.String() != "123456789" {
		t.Fatalf("got %q", s.String())
	}

	s.SetMaxLen(5)
	if s.String() != "12345" {
		t.Fatalf("got %q, want cropped to 5", s.String())
	}

	s.SetMaxLen(0)
	if s.String() != "12345" {
		t.Fatalf("got %q, want unchanged after unsetting max len", s.String())
	}

	s.SetMaxLen(3)
	_ = s.Set("abcdefghi")
	if s.String() != "abc" {
		t.Fatalf("got %q, want cropped to 3 on Set", s.String())
	}
}

func TestDefunctKeysSkippedOnLoad(t *testing.T) {
	fn := getTmpPrefFile(t)
	defer delTmpPrefFile(t, fn)

	content := fmt.Sprintf("%s\nsession.legacy_mem_window :: true\ntraceOn :: true\n", prefs.WarningBoilerPlate)
	if err := os.WriteFile(fn, []byte(content), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	dsk, err := prefs.NewDisk(fn)
	if err != nil {
		t.Fatalf("error preparing disk: %v", err)
	}

	var v prefs.Bool
	if err := dsk.Add("traceOn", &v); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := dsk.Load(true); err != nil {
		t.Fatalf("strict load should skip the defunct key, not fail: %v", err)
	}
	if v.Get() != true {
		t.Fatalf("traceOn not loaded")
	}
}
