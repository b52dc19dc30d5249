package view

import (
	"context"
	"net/http"
)

type contextKey struct{}

// WithView returns a copy of ctx carrying v.
func WithView(ctx context.Context, v *View) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, v)
}

// FromContext returns the view stored by WithView.
func FromContext(ctx context.Context) (*View, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(contextKey{}).(*View)
	return v, ok && v != nil
}

// Middleware attaches a fresh View to every request context.
func Middleware(fns ...OptionFn) func(http.Handler) http.Handler {
	return MiddlewareWithNonce(nil, fns...)
}

// NonceFunc derives a per-request CSP nonce.
type NonceFunc func(r *http.Request) string

// MiddlewareWithNonce is Middleware with a per-request nonce source.
func MiddlewareWithNonce(nonce NonceFunc, fns ...OptionFn) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			opts := append([]OptionFn(nil), fns...)
			if nonce != nil {
				opts = append(opts, WithNonce(nonce(r)))
			}
			v := FromRequest(r, opts...)
			next.ServeHTTP(w, r.WithContext(WithView(r.Context(), v)))
		})
	}
}
