package template

import (
	"io"
)

// TemplateRenderer is the seam the widget renders its markup and scripts
// through. The default implementation lives in the gotemplate subpackage;
// hosts with their own engine can supply any type satisfying it.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
