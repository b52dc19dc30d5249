package recaptcha

import (
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-recaptcha/pkg/recaptcha/config"
	rendertemplate "github.com/goliatone/go-recaptcha/pkg/render/template"
)

// RefreshInterval is how often the client asks for a fresh token. Tokens
// expire after two minutes.
const RefreshInterval = 110 * time.Second

// LoadedParam is the view parameter that guards the page-level bootstrap
// script.
const LoadedParam = "recaptcha_loaded"

// Options holds widget configuration. Zero values are resolved during
// Configure.
type Options struct {
	SiteKey    string
	ScriptURL  string
	Action     string
	Callback   string
	ConfigName string

	// ID prefixes ids derived from a free-standing field name.
	ID        string
	Name      string
	Model     Model
	Attribute string
	// FieldOptions are extra attributes for the hidden input. "id" overrides
	// the derived id; "type", "name" and "value" are ignored.
	FieldOptions map[string]string

	RefreshInterval time.Duration

	Registry  *config.Registry
	Templates rendertemplate.TemplateRenderer
	Theme     *theme.RendererConfig
	Logger    Logger
	Suffix    func() string
}

// OptionFn mutates Options during construction.
type OptionFn func(*Options)

// DefaultOptions returns the options applied before any OptionFn.
func DefaultOptions() Options {
	return Options{
		ConfigName:      config.DefaultComponentName,
		RefreshInterval: RefreshInterval,
	}
}

// NewOptions applies fns over DefaultOptions and normalises the result.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	opts.SiteKey = strings.TrimSpace(opts.SiteKey)
	opts.ScriptURL = strings.TrimSpace(opts.ScriptURL)
	opts.Action = strings.TrimSpace(opts.Action)
	opts.Callback = strings.TrimSpace(opts.Callback)
	opts.ConfigName = strings.TrimSpace(opts.ConfigName)
	if opts.ConfigName == "" {
		opts.ConfigName = config.DefaultComponentName
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = RefreshInterval
	}
	if opts.FieldOptions != nil {
		opts.FieldOptions = normalizeFieldOptions(opts.FieldOptions)
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.Suffix == nil {
		opts.Suffix = newSuffix
	}
	return opts
}

// WithSiteKey sets the site key. It takes precedence over the site key passed
// to New and over the shared configuration.
func WithSiteKey(key string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SiteKey = key
	}
}

// WithScriptURL sets the reCAPTCHA API script URL.
func WithScriptURL(url string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ScriptURL = url
	}
}

// WithAction sets the action label sent with every token request.
func WithAction(action string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Action = action
	}
}

// WithCallback names a global JavaScript function (dotted path allowed) that
// receives every new token.
func WithCallback(ref string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Callback = ref
	}
}

// WithConfigName selects the shared configuration entry.
func WithConfigName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ConfigName = name
	}
}

// WithID sets the widget id used to prefix derived field ids.
func WithID(id string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.ID = strings.TrimSpace(id)
	}
}

// WithName binds the widget to a free-standing field name.
func WithName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Name = name
	}
}

// WithModel binds the widget to a model attribute.
func WithModel(model Model, attribute string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Model = model
		o.Attribute = attribute
	}
}

// WithFieldOptions merges extra attributes for the hidden input.
func WithFieldOptions(attrs map[string]string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if o.FieldOptions == nil {
			o.FieldOptions = make(map[string]string, len(attrs))
		}
		for key, value := range attrs {
			o.FieldOptions[key] = value
		}
	}
}

// WithRefreshInterval overrides how often the client refreshes the token.
func WithRefreshInterval(interval time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RefreshInterval = interval
	}
}

// WithRegistry sets the registry consulted for shared configuration instead
// of config.Default().
func WithRegistry(reg *config.Registry) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Registry = reg
	}
}

// WithTemplateRenderer injects a custom template renderer. It must be able to
// resolve the built-in template names or the theme partial overrides.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Templates = renderer
	}
}

// WithTheme applies go-theme partial overrides for the widget templates.
func WithTheme(cfg *theme.RendererConfig) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = cfg
	}
}

// WithLogger sets the logger used for configuration diagnostics.
func WithLogger(logger Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithSuffixFunc overrides the generator of per-render function name
// suffixes.
func WithSuffixFunc(fn func() string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Suffix = fn
	}
}

// normalizeFieldOptions copies attrs with trimmed, lowercased keys. When two
// keys collide ("ID" and "id"), the one already in lowercase wins.
func normalizeFieldOptions(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for key, value := range attrs {
		name := strings.ToLower(strings.TrimSpace(key))
		if name == "" {
			continue
		}
		if _, exists := out[name]; exists && key != name {
			continue
		}
		out[name] = value
	}
	return out
}
