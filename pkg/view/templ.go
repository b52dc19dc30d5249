package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// ScriptsComponent renders the scripts registered on the view found in the
// render context. It renders nothing when no view is attached. Place it after
// every widget in the page so their registrations are already collected.
func ScriptsComponent(positions ...Position) templ.Component {
	if len(positions) == 0 {
		positions = FooterPositions
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v, ok := FromContext(ctx)
		if !ok {
			return nil
		}
		return v.WriteScripts(w, positions...)
	})
}
