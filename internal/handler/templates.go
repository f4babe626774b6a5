// Package handler contains HTTP request handlers for the registration app.
//
// Handlers are the glue between HTTP and the service layer: they parse the
// incoming request (form fields, JSON bodies, path params), call a service
// method, and write the response (a redirect, JSON, or a rendered page).
// Business rules live in internal/service, never here.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// Templates holds the parsed page templates so they aren't re-parsed on
// every request.
//
// Each page is parsed together with base.html: base.html defines the overall
// page structure with a {{template "content" .}} placeholder, and each page
// file provides {{define "content"}}...{{end}} to fill it. This is Go's
// template composition model — similar to "extends" in Jinja2.
type Templates struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// pageFiles is the set of pages the app renders.
var pageFiles = []string{
	"login.html",
	"create_account.html",
	"select_sports.html",
	"admin_dashboard.html",
}

// NewTemplates parses all page templates from templateDir.
func NewTemplates(templateDir string, logger *slog.Logger) (*Templates, error) {
	pages := make(map[string]*template.Template, len(pageFiles))
	for _, page := range pageFiles {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page),
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pages[page] = tmpl
	}

	return &Templates{pages: pages, logger: logger}, nil
}

// Render executes the named page with the given data.
// Template failures become a 500 — by then the page is half-written at
// worst, so there's nothing better to do than log and bail.
func (t *Templates) Render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := t.pages[page]
	if !ok {
		t.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		t.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
