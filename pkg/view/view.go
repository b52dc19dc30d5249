package view

import (
	"net/http"
	"strings"
	"sync"
)

// Position identifies where a registered script is emitted.
type Position int

const (
	// PosHead emits inside <head>.
	PosHead Position = iota
	// PosBegin emits right after <body>.
	PosBegin
	// PosEnd emits right before </body>.
	PosEnd
	// PosReady wraps the scripts in a jQuery document-ready handler.
	PosReady
	// PosLoad wraps the scripts in a jQuery window load handler.
	PosLoad
)

func (p Position) String() string {
	switch p {
	case PosHead:
		return "head"
	case PosBegin:
		return "begin"
	case PosEnd:
		return "end"
	case PosReady:
		return "ready"
	case PosLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Script is a JavaScript block registered on a view.
type Script struct {
	Key      string
	Position Position
	Body     string
}

// Options configures a View.
type Options struct {
	Nonce  string
	Params map[string]any
}

// OptionFn mutates Options during construction.
type OptionFn func(*Options)

// WithNonce sets the CSP nonce written on every emitted <script> tag.
func WithNonce(nonce string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Nonce = strings.TrimSpace(nonce)
	}
}

// WithParams seeds the parameter bag.
func WithParams(params map[string]any) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if o.Params == nil {
			o.Params = make(map[string]any, len(params))
		}
		for key, value := range params {
			o.Params[key] = value
		}
	}
}

// View is the render context for a single response. It is safe for concurrent
// use, though a response is normally rendered by one goroutine.
type View struct {
	mu sync.Mutex

	requestURI string
	nonce      string
	params     map[string]any
	scripts    []Script
	index      map[string]int
}

// New creates a view for the given request URI (path plus query).
func New(requestURI string, fns ...OptionFn) *View {
	var opts Options
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	params := make(map[string]any, len(opts.Params))
	for key, value := range opts.Params {
		params[key] = value
	}
	return &View{
		requestURI: requestURI,
		nonce:      opts.Nonce,
		params:     params,
		index:      make(map[string]int),
	}
}

// FromRequest creates a view for r.
func FromRequest(r *http.Request, fns ...OptionFn) *View {
	if r == nil || r.URL == nil {
		return New("", fns...)
	}
	return New(r.URL.RequestURI(), fns...)
}

// RequestURI returns the URI the view was created for.
func (v *View) RequestURI() string {
	if v == nil {
		return ""
	}
	return v.requestURI
}

// Nonce returns the CSP nonce, if any.
func (v *View) Nonce() string {
	if v == nil {
		return ""
	}
	return v.nonce
}

// Param reads a value from the parameter bag.
func (v *View) Param(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	value, ok := v.params[key]
	return value, ok
}

// SetParam stores a value in the parameter bag.
func (v *View) SetParam(key string, value any) {
	if v == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.params[key] = value
}

// Once reports whether key is seen for the first time on this view and marks
// it as seen. Only the first caller for a key gets true.
func (v *View) Once(key string) bool {
	if v == nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, seen := v.params[key]; seen {
		return false
	}
	v.params[key] = true
	return true
}

// RegisterJS queues body for output at pos. Scripts sharing a key replace
// each other in place; an empty key falls back to the body itself, so
// registering identical code twice emits it once.
func (v *View) RegisterJS(body string, pos Position, key string) {
	if v == nil || strings.TrimSpace(body) == "" {
		return
	}
	if key == "" {
		key = body
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	script := Script{Key: key, Position: pos, Body: body}
	if idx, ok := v.index[key]; ok {
		v.scripts[idx] = script
		return
	}
	v.index[key] = len(v.scripts)
	v.scripts = append(v.scripts, script)
}

// Scripts returns the bodies registered at pos in registration order.
func (v *View) Scripts(pos Position) []string {
	if v == nil {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	var out []string
	for _, script := range v.scripts {
		if script.Position == pos {
			out = append(out, script.Body)
		}
	}
	return out
}

// Registered returns a copy of every registered script.
func (v *View) Registered() []Script {
	if v == nil {
		return nil
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]Script(nil), v.scripts...)
}
