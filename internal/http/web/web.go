// Package web serves the embedded inventory page.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

//go:embed static
var staticFS embed.FS

// Register serves the page at "/" and its script at "/scripts.js".
func Register(r chi.Router) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	fileServer := http.FileServerFS(sub)
	r.Method(http.MethodGet, "/", fileServer)
	r.Method(http.MethodGet, "/scripts.js", fileServer)
}
