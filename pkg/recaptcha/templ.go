package recaptcha

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/goliatone/go-recaptcha/pkg/view"
)

// Component adapts the widget to templ. The view is taken from the render
// context (see view.WithView and view.Middleware); without one the hidden
// input is still written but no scripts are registered.
func (w *Widget) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		v, _ := view.FromContext(ctx)
		markup, err := w.Render(v)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, markup)
		return err
	})
}
