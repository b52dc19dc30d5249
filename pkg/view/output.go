package view

import (
	"fmt"
	"html"
	"io"
	"strings"
)

// FooterPositions lists the positions normally flushed before </body>, in
// emission order.
var FooterPositions = []Position{PosEnd, PosReady, PosLoad}

// WriteScripts writes one <script> block per position that has registered
// code. Ready and load scripts are wrapped in their jQuery handlers.
func (v *View) WriteScripts(w io.Writer, positions ...Position) error {
	if v == nil || w == nil {
		return nil
	}
	for _, pos := range positions {
		bodies := v.Scripts(pos)
		if len(bodies) == 0 {
			continue
		}
		if _, err := io.WriteString(w, v.scriptTag(pos, strings.Join(bodies, "\n"))); err != nil {
			return fmt.Errorf("view: write %s scripts: %w", pos, err)
		}
	}
	return nil
}

// WriteFooter writes the end, ready and load scripts.
func (v *View) WriteFooter(w io.Writer) error {
	return v.WriteScripts(w, FooterPositions...)
}

// RenderScripts returns what WriteScripts would write.
func (v *View) RenderScripts(positions ...Position) string {
	var b strings.Builder
	_ = v.WriteScripts(&b, positions...)
	return b.String()
}

func (v *View) scriptTag(pos Position, body string) string {
	var b strings.Builder
	b.Grow(len(body) + 96)
	b.WriteString("<script")
	if v.nonce != "" {
		b.WriteString(` nonce="`)
		b.WriteString(html.EscapeString(v.nonce))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	switch pos {
	case PosReady:
		b.WriteString("jQuery(function ($) {\n")
		b.WriteString(body)
		b.WriteString("\n});")
	case PosLoad:
		b.WriteString("jQuery(window).on('load', function () {\n")
		b.WriteString(body)
		b.WriteString("\n});")
	default:
		b.WriteString(body)
	}
	b.WriteString("</script>\n")
	return b.String()
}
