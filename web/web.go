// Package web embeds the browser client that renders the board.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var files embed.FS

// Handler serves the client page and its assets.
func Handler() http.Handler {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err) // embedded path is fixed at build time
	}
	return http.FileServer(http.FS(sub))
}
