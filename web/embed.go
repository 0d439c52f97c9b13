// Package web holds the browser front-end served at "/".
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var files embed.FS

// IndexFile is the page served at "/".
const IndexFile = "index.html"

// Static returns the front-end assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return sub
}
