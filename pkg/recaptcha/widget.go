package recaptcha

import (
	"strings"

	"github.com/goliatone/go-recaptcha/pkg/recaptcha/config"
	"github.com/goliatone/go-recaptcha/pkg/view"
)

// Widget renders a reCAPTCHA v3 hidden field and its scripts. Build one per
// rendered field; a Widget is not meant to be shared between goroutines.
type Widget struct {
	opts Options

	configured   bool
	callbackPath []string
}

// New creates a widget. siteKey and scriptURL are adopted only when the
// options did not already set them, so attribute-style options always win
// over the positional arguments.
func New(siteKey, scriptURL string, fns ...OptionFn) *Widget {
	opts := NewOptions(fns...)
	if opts.SiteKey == "" {
		opts.SiteKey = strings.TrimSpace(siteKey)
	}
	if opts.ScriptURL == "" {
		opts.ScriptURL = strings.TrimSpace(scriptURL)
	}
	return &Widget{opts: opts}
}

// SiteKey returns the site key, resolved once Configure ran.
func (w *Widget) SiteKey() string { return w.opts.SiteKey }

// ScriptURL returns the API script URL, resolved once Configure ran.
func (w *Widget) ScriptURL() string { return w.opts.ScriptURL }

// Action returns the action label, resolved once Configure ran.
func (w *Widget) Action() string { return w.opts.Action }

// Target returns the field binding.
func (w *Widget) Target() Target {
	return Target{Model: w.opts.Model, Attribute: w.opts.Attribute, Name: w.opts.Name}
}

// FieldName returns the name attribute of the hidden field.
func (w *Widget) FieldName() string {
	return w.Target().InputName()
}

// FieldID returns the id of the hidden field. An explicit "id" field option
// wins over the derived id.
func (w *Widget) FieldID() string {
	if id, ok := w.opts.FieldOptions["id"]; ok && id != "" {
		return id
	}
	return w.Target().InputID(w.opts.ID)
}

// Configure resolves the site key, script URL and action. Missing values
// come from the shared configuration entry, then from defaults; the action
// is derived from the view's request URI. Calling it again is a no-op.
func (w *Widget) Configure(v *view.View) {
	if w.configured {
		return
	}
	w.configured = true

	registry := w.opts.Registry
	if registry == nil {
		registry = config.Default()
	}
	shared, found := registry.Lookup(w.opts.ConfigName)

	if w.opts.SiteKey == "" && found && shared.SiteKeyV3 != "" {
		w.opts.SiteKey = shared.SiteKeyV3
	}
	if w.opts.ScriptURL == "" {
		if found && shared.JSAPIURL != "" {
			w.opts.ScriptURL = shared.JSAPIURL
		} else {
			w.opts.ScriptURL = config.DefaultJSAPIURL
		}
	}
	if w.opts.Action == "" {
		w.opts.Action = ActionFromURI(v.RequestURI())
	}

	path, err := ParseCallback(w.opts.Callback)
	if err != nil {
		w.opts.Logger.Warnf("%v; callback ignored", err)
		path = nil
	}
	w.callbackPath = path
}

// Run registers the widget scripts on v and returns the hidden input markup.
// Without a site key it returns an empty string and registers nothing. The
// page bootstrap script is registered only for the first widget on a view.
func (w *Widget) Run(v *view.View) (string, error) {
	w.Configure(v)

	if w.opts.SiteKey == "" {
		w.opts.Logger.Debugf("recaptcha: no site key for %q (config %q); widget skipped", w.FieldName(), w.opts.ConfigName)
		return "", nil
	}

	fieldID := w.FieldID()
	ready, err := w.render(PartialReady, TemplateReady, map[string]any{
		"suffix":     w.opts.Suffix(),
		"site_key":   w.opts.SiteKey,
		"action":     w.opts.Action,
		"field_id":   fieldID,
		"callback":   w.callbackPath,
		"refresh_ms": int(w.opts.RefreshInterval.Milliseconds()),
	})
	if err != nil {
		return "", err
	}

	var bootstrap string
	if !isLoaded(v) {
		bootstrap, err = w.render(PartialBootstrap, TemplateBootstrap, map[string]any{
			"script_src": ScriptSource(w.opts.ScriptURL, w.opts.SiteKey),
		})
		if err != nil {
			return "", err
		}
	}

	input, err := w.render(PartialInput, TemplateInput, map[string]any{
		"name":  w.FieldName(),
		"id":    fieldID,
		"attrs": extraAttrs(w.opts.FieldOptions, w.opts.Logger),
	})
	if err != nil {
		return "", err
	}

	// Everything rendered; only now touch the view so a failure leaves it
	// unchanged.
	v.RegisterJS(ready, view.PosReady, "")
	if bootstrap != "" && v.Once(LoadedParam) {
		v.RegisterJS(bootstrap, view.PosReady, LoadedParam)
	}
	if w.templateName(PartialInput, TemplateInput) == TemplateInput {
		input = sanitizeInput(input)
	}
	return input, nil
}

// Render is Configure followed by Run. With a nil view the hidden input is
// still returned but no scripts are registered.
func (w *Widget) Render(v *view.View) (string, error) {
	w.Configure(v)
	return w.Run(v)
}

func isLoaded(v *view.View) bool {
	_, loaded := v.Param(LoadedParam)
	return loaded
}
