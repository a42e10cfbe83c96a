package settings

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Renderer is the template contract the controller renders through.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// NewTemplateRenderer returns a go-template renderer over fsys, whose files
// must sit under a templates/ directory. A nil fsys uses the embedded set.
func NewTemplateRenderer(fsys fs.FS) (Renderer, error) {
	if fsys == nil {
		fsys = embeddedTemplates
	}
	root, err := fs.Sub(fsys, "templates")
	if err != nil {
		return nil, fmt.Errorf("settings: template root: %w", err)
	}
	return template.NewRenderer(
		template.WithFS(root),
		template.WithExtension(".html"),
	)
}
