// Package view renders the HTML pages. The markup is deliberately bare;
// styling and layout belong to the front-end, the handlers only care about
// which page and which data.
package view

import (
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var files embed.FS

type Renderer struct {
	templates *template.Template
}

func New() (*Renderer, error) {
	t, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render writes the named page. Template execution errors after the header
// has gone out can only be logged.
func (r *Renderer) Render(w http.ResponseWriter, statusCode int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render failed: template=%s error=%v", name, err)
	}
}
