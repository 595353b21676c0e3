package web

import (
	"embed"
	"fmt"
	"net/http"
)

//go:embed login.html
var content embed.FS

// Handler returns an http.Handler serving the embedded login page. Error
// display and redirect carry-through are handled client-side from the query
// string, so the page is served as-is.
func Handler() (http.Handler, error) {
	page, err := content.ReadFile("login.html")
	if err != nil {
		return nil, fmt.Errorf("reading embedded login page: %w", err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}), nil
}
