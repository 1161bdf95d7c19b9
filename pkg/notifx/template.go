package notifx

import (
	"bytes"
	"strings"
	"sync"
	"text/template"
)

// TemplateRegistry stores named plain-text body templates. Rendering fails
// on fields missing from the data instead of printing "<no value>".
type TemplateRegistry struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{templates: make(map[string]*template.Template)}
}

// Register parses tmplString and stores it under name, replacing any
// previous template of that name.
func (r *TemplateRegistry) Register(name, tmplString string) error {
	t, err := template.New(name).Option("missingkey=error").Parse(tmplString)
	if err != nil {
		return notifxErrors.NewWithCause(ErrTemplateParse, err).WithDetail("template", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[name] = t
	return nil
}

// Has reports whether a template is registered under name.
func (r *TemplateRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.templates[name]
	return ok
}

// Render executes the named template and trims surrounding whitespace.
func (r *TemplateRegistry) Render(name string, data any) (string, error) {
	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return "", notifxErrors.New(ErrTemplateNotFound).WithDetail("template", name)
	}

	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", notifxErrors.NewWithCause(ErrTemplateRender, err).WithDetail("template", name)
	}
	return strings.TrimSpace(b.String()), nil
}
