package processing

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/platewise/platewise/config"
)

// PromptBuilder turns a MealQuery into the textual instruction sent to the
// model. Templates are compiled once at construction so an invalid template
// fails the process at startup, not mid-request.
type PromptBuilder struct {
	templates map[string]*template.Template
}

// promptData is the template input. Description is empty when the client
// supplied only a photo; the template substitutes its placeholder marker in
// that case.
type promptData struct {
	Description string
	HasImage    bool
}

// NewPromptBuilder compiles the configured request templates. The "default"
// template is required.
func NewPromptBuilder(cfg config.ProcessingConfig) (*PromptBuilder, error) {
	templates := make(map[string]*template.Template)
	for name, tmpl := range cfg.RequestTemplates {
		t, err := template.New(name).Parse(tmpl)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	if _, ok := templates["default"]; !ok {
		return nil, fmt.Errorf("missing default request template")
	}
	return &PromptBuilder{templates: templates}, nil
}

// Build produces the prompt for a query. The description is embedded
// verbatim when present; template execution against the fixed promptData
// shape cannot reference missing fields, so this only fails on a template
// that survived compilation but writes to a failing writer.
func (b *PromptBuilder) Build(q MealQuery) (string, error) {
	data := promptData{
		Description: strings.TrimSpace(q.Description),
		HasImage:    len(q.Image) > 0,
	}

	var buf bytes.Buffer
	if err := b.templates["default"].Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute prompt template: %w", err)
	}
	return buf.String(), nil
}
