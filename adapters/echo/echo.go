// Package recaptchaecho provides Echo framework integration for the
// reCAPTCHA widget.
//
// Attach a view to every request, render widgets against it, and flush the
// collected scripts at the end of the page:
//
//	e := echo.New()
//	e.Use(recaptchaecho.Middleware())
//
//	e.GET("/signup", func(c echo.Context) error {
//	    return recaptchaecho.Render(c, page(widget.Component()))
//	})
package recaptchaecho

import (
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/goliatone/go-recaptcha/pkg/view"
)

// ContextKey is the echo.Context key the view is stored under.
const ContextKey = "recaptcha.view"

// Option configures Middleware.
type Option func(*options)

type options struct {
	nonce    func(c echo.Context) string
	viewOpts []view.OptionFn
}

// WithNonce sets a per-request CSP nonce source.
func WithNonce(fn func(c echo.Context) string) Option {
	return func(o *options) {
		o.nonce = fn
	}
}

// WithViewOptions forwards options to every view created by the middleware.
func WithViewOptions(fns ...view.OptionFn) Option {
	return func(o *options) {
		o.viewOpts = append(o.viewOpts, fns...)
	}
}

// Middleware creates a view per request, stores it on the echo context and
// on the request context so templ components can reach it.
func Middleware(opts ...Option) echo.MiddlewareFunc {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			fns := append([]view.OptionFn(nil), o.viewOpts...)
			if o.nonce != nil {
				fns = append(fns, view.WithNonce(o.nonce(c)))
			}
			req := c.Request()
			v := view.FromRequest(req, fns...)
			c.Set(ContextKey, v)
			c.SetRequest(req.WithContext(view.WithView(req.Context(), v)))
			return next(c)
		}
	}
}

// View returns the view attached by Middleware. Without the middleware a new
// view for the current request is created and attached.
func View(c echo.Context) *view.View {
	if v, ok := c.Get(ContextKey).(*view.View); ok && v != nil {
		return v
	}
	req := c.Request()
	v := view.FromRequest(req)
	c.Set(ContextKey, v)
	c.SetRequest(req.WithContext(view.WithView(req.Context(), v)))
	return v
}

// Render writes a templ component to the Echo response.
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return component.Render(c.Request().Context(), c.Response())
}
