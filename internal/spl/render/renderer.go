package render

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

// TemplateGenerateSpl is the one named template the export pipeline
// renders against.
const TemplateGenerateSpl = "GenerateSpl"

// Renderer expands a named template against a fully prepared model value.
type Renderer interface {
	Render(name string, model any) (string, error)
}

//go:embed templates/*.tmpl
var templateFS embed.FS

type templateRenderer struct {
	tmpl *template.Template
}

func NewTemplateRenderer() (Renderer, error) {
	tmpl, err := template.New("spl").Funcs(sprig.FuncMap()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("unable to parse embedded templates: %w", err)
	}
	return &templateRenderer{tmpl: tmpl}, nil
}

func (r *templateRenderer) Render(name string, model any) (string, error) {
	buf := new(bytes.Buffer)
	if err := r.tmpl.ExecuteTemplate(buf, name, model); err != nil {
		return "", fmt.Errorf("unable to expand template %s: %w", name, err)
	}
	return buf.String(), nil
}
