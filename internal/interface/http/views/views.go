// Package views holds the server-rendered pages. Every page is parsed into
// one template set and addressed by its file name, e.g. "home.html".
package views

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed *.html
var FS embed.FS

// Funcs is the helper set shared by every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"date":  func(t time.Time) string { return t.UTC().Format("02 Jan 2006") },
		"rating": func(v float64) string {
			if v == 0 {
				return "no ratings yet"
			}
			return fmt.Sprintf("%.1f / 3", v)
		},
		"selected": func(a, b string) template.HTMLAttr {
			if a == b {
				return "selected"
			}
			return ""
		},
	}
}

// Templates parses every embedded page.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(FS, "*.html")
}

// MustTemplates is Templates for process start-up.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}
