package rverr

var messages = map[Errno]string{
	// Loader
	ImageCannotOpen: "cannot open program image (%s)",
	ImageReadError:  "error reading program image (%s)",
	ImageTooLarge:   "program image (%d bytes) does not fit in %d bytes of RAM",
	ImageEmpty:      "program image is empty",

	// Memory map
	RegionOverlap:    "memory region %s overlaps region %s",
	RegionMisaligned: "memory region %s base address %#08x is not aligned to %d bytes",
	AddressUnmapped:  "address %#08x is not mapped by any region",

	// Regression
	CaseFileCannotOpen:      "cannot open regression case file (%s)",
	CaseFileInvalid:         "invalid regression case file (%s): %s",
	CaseExpectationMismatch: "case %s: register %s = %#08x, want %#08x",
	CaseRunFailed:           "%s failed",

	// Preferences / CLI
	PrefsFileCannotOpen: "cannot open preferences file (%s)",
	PrefsFileError:      "error processing preferences file (%s)",
	InvalidFlagValue:    "invalid value %q for flag %s",
}
