package recaptcha

import (
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"sync"

	"github.com/goliatone/go-recaptcha/pkg/render/template"
	"github.com/goliatone/go-recaptcha/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Built-in template names, relative to TemplatesFS.
const (
	TemplateReady     = "templates/ready.js"
	TemplateBootstrap = "templates/bootstrap.js"
	TemplateInput     = "templates/input.html"
)

// Theme partial keys that override the built-in template names.
const (
	PartialReady     = "recaptcha.ready"
	PartialBootstrap = "recaptcha.bootstrap"
	PartialInput     = "recaptcha.input"
)

// TemplatesFS exposes the embedded templates so hosts can copy or extend them.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

var (
	defaultEngineOnce sync.Once
	defaultEngine     *gotemplate.Engine
	defaultEngineErr  error
)

// DefaultTemplates returns the shared engine loaded with the embedded
// templates.
func DefaultTemplates() (template.TemplateRenderer, error) {
	defaultEngineOnce.Do(func() {
		defaultEngine, defaultEngineErr = gotemplate.New(
			gotemplate.WithFS(embeddedTemplates),
			gotemplate.WithExtension(".tpl"),
		)
	})
	if defaultEngineErr != nil {
		return nil, fmt.Errorf("recaptcha: configure templates: %w", defaultEngineErr)
	}
	return defaultEngine, nil
}

// ScriptSource appends the render parameter to the API script URL.
func ScriptSource(scriptURL, siteKey string) string {
	sep := "?"
	if strings.Contains(scriptURL, "?") {
		sep = "&"
	}
	return scriptURL + sep + url.Values{"render": {siteKey}}.Encode()
}

func (w *Widget) templates() (template.TemplateRenderer, error) {
	if w.opts.Templates != nil {
		return w.opts.Templates, nil
	}
	return DefaultTemplates()
}

func (w *Widget) templateName(partial, fallback string) string {
	if w.opts.Theme != nil && w.opts.Theme.Partials != nil {
		if candidate := strings.TrimSpace(w.opts.Theme.Partials[partial]); candidate != "" {
			return candidate
		}
	}
	return fallback
}

func (w *Widget) render(partial, fallback string, data map[string]any) (string, error) {
	engine, err := w.templates()
	if err != nil {
		return "", err
	}
	name := w.templateName(partial, fallback)
	out, err := engine.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("recaptcha: render %s: %w", name, err)
	}
	return strings.TrimSpace(out), nil
}
