package config

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Script endpoints for the reCAPTCHA JavaScript API. Use
// AlternativeJSAPIURL where www.google.com is not reachable.
const (
	DefaultJSAPIURL     = "//www.google.com/recaptcha/api.js"
	AlternativeJSAPIURL = "//www.recaptcha.net/recaptcha/api.js"
)

// DefaultComponentName is the registry name widgets use unless told otherwise.
const DefaultComponentName = "reCaptcha"

// Config is the application-level reCAPTCHA configuration.
type Config struct {
	SiteKeyV3 string `yaml:"site_key_v3" json:"site_key_v3" mapstructure:"site_key_v3" env:"SITE_KEY_V3"`
	JSAPIURL  string `yaml:"js_api_url" json:"js_api_url,omitempty" mapstructure:"js_api_url" env:"JS_API_URL"`
}

// Normalize trims surrounding whitespace from every field.
func (c Config) Normalize() Config {
	c.SiteKeyV3 = strings.TrimSpace(c.SiteKeyV3)
	c.JSAPIURL = strings.TrimSpace(c.JSAPIURL)
	return c
}

// Registry stores Config values by component name.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]Config
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		configs: make(map[string]Config),
	}
}

// Register stores cfg under name, replacing any previous entry.
func (r *Registry) Register(name string, cfg Config) error {
	if r == nil {
		return fmt.Errorf("config: registry is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("config: component name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.configs == nil {
		r.configs = make(map[string]Config)
	}
	r.configs[name] = cfg.Normalize()
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, cfg Config) {
	if err := r.Register(name, cfg); err != nil {
		panic(err)
	}
}

// Lookup returns the entry registered under name. A nil registry has no
// entries.
func (r *Registry) Lookup(name string) (Config, bool) {
	if r == nil {
		return Config{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[strings.TrimSpace(name)]
	return cfg, ok
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of every registered entry.
func (r *Registry) Snapshot() map[string]Config {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Config, len(r.configs))
	for name, cfg := range r.configs {
		out[name] = cfg
	}
	return out
}

var (
	defaultMu       sync.RWMutex
	defaultRegistry = NewRegistry()
)

// Default returns the process-wide registry widgets consult when no registry
// was supplied explicitly.
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRegistry
}

// SetDefault replaces the process-wide registry. Passing nil installs an empty
// one.
func SetDefault(reg *Registry) {
	if reg == nil {
		reg = NewRegistry()
	}
	defaultMu.Lock()
	defaultRegistry = reg
	defaultMu.Unlock()
}
