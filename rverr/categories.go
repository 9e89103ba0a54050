package rverr

// list of error numbers, grouped by the collaborator that raises them.
const (
	// Loader
	ImageCannotOpen Errno = iota
	ImageReadError
	ImageTooLarge
	ImageEmpty

	// Memory map
	RegionOverlap
	RegionMisaligned
	AddressUnmapped

	// Regression
	CaseFileCannotOpen
	CaseFileInvalid
	CaseExpectationMismatch
	CaseRunFailed

	// Preferences / CLI
	PrefsFileCannotOpen
	PrefsFileError
	InvalidFlagValue
)
