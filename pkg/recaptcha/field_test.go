package recaptcha

import "testing"

func TestNameToID(t *testing.T) {
	cases := map[string]string{
		"Model[attr]":        "model-attr",
		"a.b c":              "a-b-c",
		"Items[]":            "items",
		"Post[0][tags][]":    "post-0-tags",
		"Form[nested][name]": "form-nested-name",
		"plain":              "plain",
	}
	for name, want := range cases {
		if got := NameToID(name); got != want {
			t.Fatalf("NameToID(%q): want %q, got %q", name, want, got)
		}
	}
}

func TestInputName(t *testing.T) {
	cases := []struct {
		form      string
		attribute string
		want      string
	}{
		{form: "Signup", attribute: "reCaptcha", want: "Signup[reCaptcha]"},
		{form: "Post", attribute: "[0]content[en]", want: "Post[0][content][en]"},
		{form: "", attribute: "reCaptcha", want: "reCaptcha"},
		{form: "", attribute: "[0]content", want: "[0]content"},
		{form: "Signup", attribute: "bad attr!", want: "Signup[bad attr!]"},
	}
	for _, tc := range cases {
		if got := InputName(FormName(tc.form), tc.attribute); got != tc.want {
			t.Fatalf("InputName(%q, %q): want %q, got %q", tc.form, tc.attribute, tc.want, got)
		}
	}
	if got := InputID(FormName("Post"), "[0]content[en]"); got != "post-0-content-en" {
		t.Fatalf("unexpected input id %q", got)
	}
}

func TestTarget(t *testing.T) {
	bound := Target{Model: FormName("Signup"), Attribute: "captcha", Name: "ignored"}
	if !bound.HasModel() {
		t.Fatalf("expected model binding")
	}
	if got := bound.InputName(); got != "Signup[captcha]" {
		t.Fatalf("model binding must win over name, got %q", got)
	}
	if got := bound.InputID("w1"); got != "signup-captcha" {
		t.Fatalf("widget id must not prefix model ids, got %q", got)
	}

	free := Target{Model: FormName("Signup"), Name: "token"}
	if free.HasModel() {
		t.Fatalf("model without attribute is not a binding")
	}
	if got := free.InputID("w1"); got != "w1-token" {
		t.Fatalf("unexpected free-standing id %q", got)
	}
}
