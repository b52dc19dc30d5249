package recaptcha

import (
	"testing"

	"github.com/goliatone/go-recaptcha/pkg/testsupport"
)

func TestParseCallback(t *testing.T) {
	valid := map[string][]string{
		"onToken":               {"onToken"},
		" app.forms.onToken ":   {"app", "forms", "onToken"},
		"window.$captcha._done": {"$captcha", "_done"},
		"":                      nil,
	}
	for expr, want := range valid {
		got, err := ParseCallback(expr)
		if err != nil {
			t.Fatalf("ParseCallback(%q): %v", expr, err)
		}
		if diff := testsupport.CompareGolden(want, got); diff != "" {
			t.Fatalf("ParseCallback(%q) mismatch (-want +got):\n%s", expr, diff)
		}
	}

	for _, expr := range []string{
		"function(t){alert(t)}",
		"app..onToken",
		"app.onToken()",
		"1st",
		`x"]);alert(1);//`,
		"a.b-c",
	} {
		if _, err := ParseCallback(expr); err == nil {
			t.Fatalf("ParseCallback(%q): expected error", expr)
		}
	}
}
