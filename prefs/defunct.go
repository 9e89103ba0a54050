package prefs

// defunct lists preference keys that earlier versions of the on-disk
// format wrote but that no longer correspond to anything. Disk.Load
// skips them rather than treating them as unrecognised.
var defunct = []string{
	"session.legacy_mem_window",
}

func isDefunct(s string) bool {
	for _, m := range defunct {
		if s == m {
			return true
		}
	}
	return false
}
