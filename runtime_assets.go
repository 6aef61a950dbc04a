package parsejson

import (
	"io/fs"

	"github.com/goliatone/go-parsejson/pkg/page"
)

// StaticFS exposes the browser submission scripts (compact and pretty
// variants) so Go applications can serve them next to their own pages.
//
// Typical mount:
//
//	mux.Handle("/static/",
//	  http.StripPrefix("/static/",
//	    http.FileServerFS(parsejson.StaticFS()),
//	  ),
//	)
func StaticFS() fs.FS {
	return page.StaticFS()
}
