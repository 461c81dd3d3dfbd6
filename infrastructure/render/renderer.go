package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"snapgram-backend/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer implements the Renderer port over the embedded view
// templates. Each view is addressed by its file name, e.g. "home.html".
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses all embedded views.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"relativeTime": func(t time.Time) string {
			return utils.RelativeTime(t, time.Now().UTC())
		},
	}

	templates, err := template.New("views").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse view templates: %w", err)
	}
	return &TemplateRenderer{templates: templates}, nil
}

// Render writes the named view with the given data context.
func (r *TemplateRenderer) Render(w io.Writer, view string, data map[string]interface{}) error {
	if r.templates.Lookup(view) == nil {
		return fmt.Errorf("unknown view: %s", view)
	}
	return r.templates.ExecuteTemplate(w, view, data)
}
