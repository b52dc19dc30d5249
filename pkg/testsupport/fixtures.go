package testsupport

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// MustParseHTML parses a markup fragment into a goquery document.
func MustParseHTML(t *testing.T, markup string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// Attrs collects the attributes of the first element matching selector. It
// fails the test when nothing matches.
func Attrs(t *testing.T, doc *goquery.Document, selector string) map[string]string {
	t.Helper()

	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		t.Fatalf("no element matches %q", selector)
	}
	out := make(map[string]string)
	for _, attr := range sel.Nodes[0].Attr {
		out[attr.Key] = attr.Val
	}
	return out
}
