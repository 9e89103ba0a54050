//go:build !statsview
// +build !statsview

package statsview

import (
	"fmt"
	"io"
	"net/http"
)

// Launch reports that no dashboard is available in this build.
func Launch(output io.Writer, feed http.Handler) {
	fmt.Fprintln(output, "statsview: not built with the statsview tag, dashboard unavailable")
}

// Available reports whether a dashboard can be launched in this build.
func Available() bool {
	return false
}
