// Package template defines the renderer-agnostic template interface used by
// the reCAPTCHA widget to produce its hidden input and script fragments.
package template
