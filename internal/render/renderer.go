// Package render turns typed page contexts into HTML with html/template.
package render

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	ferrors "git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

//go:embed templates/*.html
var embedded embed.FS

var pageTemplates = []string{
	TemplatePost,
	TemplateList,
	TemplateArchive,
	TemplateTags,
	TemplateTag,
	TemplatePage,
}

// EmbeddedTemplates returns the built-in templates keyed by name.
func EmbeddedTemplates() map[string][]byte {
	out := make(map[string][]byte, len(pageTemplates)+1)
	for _, name := range append([]string{TemplateBase}, pageTemplates...) {
		data, err := embedded.ReadFile("templates/" + name)
		if err != nil {
			continue
		}
		out[name] = data
	}
	return out
}

// Renderer executes page templates. It is safe for concurrent use once built.
type Renderer struct {
	sets       map[string]*template.Template
	overridden []string
}

// NewRenderer parses the templates, preferring files in overrideDir over the built-in
// ones. An empty or missing overrideDir uses only the built-in templates.
func NewRenderer(overrideDir string) (*Renderer, error) {
	r := &Renderer{sets: make(map[string]*template.Template, len(pageTemplates))}

	baseSrc, err := r.load(overrideDir, TemplateBase)
	if err != nil {
		return nil, err
	}
	base, err := template.New(TemplateBase).Parse(string(baseSrc))
	if err != nil {
		return nil, parseError(err, TemplateBase)
	}

	for _, name := range pageTemplates {
		src, err := r.load(overrideDir, name)
		if err != nil {
			return nil, err
		}
		set, err := base.Clone()
		if err != nil {
			return nil, parseError(err, name)
		}
		if _, err := set.New(name).Parse(string(src)); err != nil {
			return nil, parseError(err, name)
		}
		r.sets[name] = set
	}
	sort.Strings(r.overridden)
	return r, nil
}

func (r *Renderer) load(dir, name string) ([]byte, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name)) // #nosec G304 -- fixed template names under the configured directory
		if err == nil {
			r.overridden = append(r.overridden, name)
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryRender, "read template").
				Fatal().
				UserAction().
				WithContext("template", name).
				Build()
		}
	}
	data, err := embedded.ReadFile("templates/" + name)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "missing built-in template").
			Fatal().
			WithContext("template", name).
			Build()
	}
	return data, nil
}

func parseError(err error, name string) error {
	return ferrors.WrapError(err, ferrors.CategoryRender, "parse template").
		Fatal().
		UserAction().
		WithContext("template", name).
		Build()
}

// Overridden lists the templates loaded from the templates directory.
func (r *Renderer) Overridden() []string {
	return append([]string(nil), r.overridden...)
}

// Render executes the page's template inside the base layout.
func (r *Renderer) Render(p Page) (string, error) {
	set, ok := r.sets[p.Template()]
	if !ok {
		return "", ferrors.RenderError("unknown template").WithContext("template", p.Template()).Build()
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, TemplateBase, p); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryRender, "execute template").
			Warning().
			FullRebuild().
			WithContext("template", p.Template()).
			Build()
	}
	return buf.String(), nil
}
