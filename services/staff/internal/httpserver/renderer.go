package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/little_lovely/pkg/logging"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pages maps a page name to the file that defines its "content" block.
var pages = map[string]string{
	"home":    "templates/home.tmpl",
	"profile": "templates/profile.tmpl",
}

// TemplateRenderer renders a page by executing the shared layout around the page's content.
type TemplateRenderer struct {
	pages map[string]*template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	base, err := template.New("root").Funcs(templateFuncs()).ParseFS(templateFS,
		"templates/layout.tmpl",
		"templates/partials.tmpl",
	)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	r := &TemplateRenderer{pages: make(map[string]*template.Template, len(pages))}
	for name, file := range pages {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.FromContext(c.Request().Context()).Error("template_execution_failed", "template", name, "error", err)
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"firstImage": func(paths []string) string {
			if len(paths) == 0 {
				return ""
			}
			return paths[0]
		},
	}
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
