package template_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-recaptcha/pkg/render/template/gotemplate"
	"github.com/goliatone/go-recaptcha/pkg/testsupport"
)

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	files := fstest.MapFS{
		"templates/hello.tpl":     {Data: []byte("Hello {{ name }}!")},
		"templates/script.js.tpl": {Data: []byte(`var key = {{ key|jsstr }}; var fn = "{{ fn|jsident }}"; var path = {{ path|jsjson }};`)},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("templates/hello", map[string]any{"name": "Ada"}, w)
	})

	if result != "Hello Ada!" {
		t.Fatalf("unexpected result %q", result)
	}
	if written != result {
		t.Fatalf("writer mismatch: %q vs %q", written, result)
	}
}

func TestGoTemplateEngine_AutoescapesPlainValues(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("templates/hello", map[string]any{"name": `<b>"x"</b>`})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(result, "<b>") {
		t.Fatalf("expected markup to be escaped, got %q", result)
	}
}

func TestGoTemplateEngine_ScriptFilters(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("templates/script.js", map[string]any{
		"key":  `a"</script><script>alert(1)`,
		"fn":   "set-Token();x",
		"path": []string{"app", "onToken"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := `var key = "a\"\u003c/script\u003e\u003cscript\u003ealert(1)"; var fn = "setTokenx"; var path = ["app","onToken"];`
	if diff := testsupport.CompareGolden(want, result); diff != "" {
		t.Fatalf("script output mismatch (-want +got):\n%s", diff)
	}
}

func TestGoTemplateEngine_BaseDirOverridesFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "templates", "hello.tpl"), []byte("Hi {{ name }} from disk"), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	files := fstest.MapFS{
		"templates/hello.tpl": {Data: []byte("Hello {{ name }}!")},
		"templates/other.tpl": {Data: []byte("other {{ name }}")},
	}
	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir), gotemplate.WithFS(files))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	result, err := engine.RenderTemplate("templates/hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hi Ada from disk" {
		t.Fatalf("expected the directory template, got %q", result)
	}

	result, err = engine.RenderTemplate("templates/other", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render fallback: %v", err)
	}
	if result != "other Ada" {
		t.Fatalf("expected the fs template, got %q", result)
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("templates/missing", nil); err == nil {
		t.Fatalf("expected an error for a missing template")
	}
}

func TestGoTemplateEngine_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}
