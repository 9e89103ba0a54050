// Package paths locates the on-disk files the CLI driver reads and writes:
// the preferences file, regression manifests, captured traces. The policy
// is simple: if ".rvhart" is present in the current directory, resources
// live under it; otherwise they live under the user's config directory, as
// reported by os.UserConfigDir().
//
//	d := paths.ResourcePath("session.prefs")
//
// On a modern Linux system that resolves to:
//
//	/home/user/.config/rvhart/session.prefs
package paths
