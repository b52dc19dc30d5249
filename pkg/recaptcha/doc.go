// Package recaptcha renders a Google reCAPTCHA v3 widget for server-rendered
// forms.
//
// A Widget emits a hidden input that carries the verification token and
// registers two scripts on the request's view.View: a per-widget initializer
// that asks grecaptcha for a token and refreshes it every 110 seconds, and a
// page-level bootstrap (registered once per view) that lazy-loads the
// reCAPTCHA API on the first pointer or touch movement and then runs every
// pending initializer.
//
// Typical use inside a handler:
//
//	v := view.FromRequest(r)
//	w := recaptcha.New("", "", recaptcha.WithName("reCaptcha"), recaptcha.WithAction("signup"))
//	field, err := w.Render(v)
//	// write field inside the <form>, then v.WriteFooter(out) before </body>
//
// When the widget has no site key it falls back to the config.Registry entry
// named by its config name ("reCaptcha" by default). If no site key can be
// resolved the widget renders nothing and registers no scripts.
//
// Token verification is not part of this package.
package recaptcha
