// Package views holds the HTML pages, named "<resource>/<action>".
package views

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates
var files embed.FS

// Load parses every page and the shared layout pieces.
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcs()).ParseFS(files,
		"templates/*.tmpl",
		"templates/farms/*.tmpl",
		"templates/products/*.tmpl",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse views: %w", err)
	}
	return tmpl, nil
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(p *float64) string {
			if p == nil {
				return "-"
			}
			return fmt.Sprintf("$%.2f", *p)
		},
	}
}
