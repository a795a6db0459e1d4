package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/better-appgen/appgen/internal/apperr"
)

//go:embed templates
var templateFS embed.FS

const templateExt = ".tmpl"

// Renderer executes named templates from a file system.
type Renderer struct {
	fsys fs.FS
}

// NewRenderer returns a Renderer reading templates from fsys.
func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{fsys: fsys}
}

// Default returns a Renderer over the embedded templates.
func Default() *Renderer {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("scaffold: embedded templates: %v", err))
	}
	return NewRenderer(sub)
}

// Has reports whether the named template exists.
func (r *Renderer) Has(name string) bool {
	_, err := fs.Stat(r.fsys, name+templateExt)
	return err == nil
}

// Render executes the named template against data. A template that is not
// packaged fails with TEMPLATE_MISSING.
func (r *Renderer) Render(name string, data any) (string, error) {
	file := name + templateExt
	src, err := fs.ReadFile(r.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.Newf(apperr.TemplateMissing, "Template file not found: %s", file)
		}
		return "", fmt.Errorf("reading template %s: %w", file, err)
	}

	tmpl, err := template.New(path.Base(file)).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", file, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %s: %w", file, err)
	}
	return buf.String(), nil
}

// Names lists every available template name in lexical order.
func (r *Renderer) Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, templateExt) {
			return nil
		}
		names = append(names, strings.TrimSuffix(p, templateExt))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	sort.Strings(names)
	return names, nil
}
