//go:build statsview
// +build statsview

// Package statsview is an optional package, built only when the
// +statsview build constraint is present. It serves a live runtime
// dashboard (goroutine/heap stats) over HTTP, backed by
// github.com/go-echarts/statsview, and can additionally serve a
// caller-supplied feed handler with permissive CORS via
// github.com/rs/cors.
package statsview

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/rs/cors"
)

// Address is the host:port the dashboard listens on.
const Address = "localhost:12600"

const url = "/debug/statsview"

// Launch starts the dashboard in a background goroutine. feed, if
// non-nil, is mounted at /debug/histogram with permissive CORS so a
// locally-run browser page can poll it.
func Launch(output io.Writer, feed http.Handler) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	if feed != nil {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/debug/histogram", cors.AllowAll().Handler(feed))
			_ = http.ListenAndServe("localhost:12601", mux)
		}()
	}

	fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)
}

// Available reports whether a dashboard can be launched in this build.
func Available() bool {
	return true
}
