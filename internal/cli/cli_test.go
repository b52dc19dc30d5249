package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/goliatone/go-recaptcha/pkg/recaptcha/config"
	"github.com/goliatone/go-recaptcha/pkg/testsupport"
)

type fakePrompt struct {
	inputs   []string
	selects  []int
	confirms []bool
	asked    []string
}

func (f *fakePrompt) Input(_ context.Context, cfg InputConfig) (string, error) {
	f.asked = append(f.asked, cfg.Message)
	if len(f.inputs) == 0 {
		return "", errors.New("unexpected input prompt: " + cfg.Message)
	}
	answer := f.inputs[0]
	f.inputs = f.inputs[1:]
	if answer == "" {
		answer = cfg.Default
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (f *fakePrompt) Select(_ context.Context, cfg SelectConfig) (int, error) {
	f.asked = append(f.asked, cfg.Message)
	if len(f.selects) == 0 {
		return 0, errors.New("unexpected select prompt: " + cfg.Message)
	}
	answer := f.selects[0]
	f.selects = f.selects[1:]
	return answer, nil
}

func (f *fakePrompt) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	f.asked = append(f.asked, cfg.Message)
	if len(f.confirms) == 0 {
		return false, errors.New("unexpected confirm prompt: " + cfg.Message)
	}
	answer := f.confirms[0]
	f.confirms = f.confirms[1:]
	return answer, nil
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"RECAPTCHA_SITE_KEY_V3", "RECAPTCHA_JS_API_URL", "RECAPTCHA_CONFIG", "RECAPTCHA_LOGLEVEL", "RECAPTCHA_COMPONENT", "RECAPTCHA_ADDR", "RECAPTCHA_TEMPLATES"} {
		t.Setenv(key, "")
	}
}

func run(t *testing.T, prompt PromptDriver, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(
		WithOutput(&out, &errOut),
		WithPrompt(prompt),
		WithViper(viper.New()),
	)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recaptcha.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestInit_WritesComponent(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "recaptcha.yaml")
	prompt := &fakePrompt{
		inputs:  []string{"", "6LcSiteKey"},
		selects: []int{1},
	}

	out, _, err := run(t, prompt, "init", "--output", path)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "Config written to "+path) {
		t.Fatalf("unexpected output %q", out)
	}

	reg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	got, ok := reg.Lookup(config.DefaultComponentName)
	if !ok {
		t.Fatalf("expected component %q", config.DefaultComponentName)
	}
	want := config.Config{SiteKeyV3: "6LcSiteKey", JSAPIURL: config.AlternativeJSAPIURL}
	if diff := testsupport.CompareGolden(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestInit_CustomURLAndMerge(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "components:\n  other:\n    site_key_v3: keep\n")
	prompt := &fakePrompt{
		inputs:  []string{"checkout", "K2", "https://captcha.example.com/api.js"},
		selects: []int{len(scriptURLChoices) - 1},
	}

	if _, _, err := run(t, prompt, "init", "--output", path); err != nil {
		t.Fatalf("init: %v", err)
	}

	reg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := testsupport.CompareGolden([]string{"checkout", "other"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	got, _ := reg.Lookup("checkout")
	if got.JSAPIURL != "https://captcha.example.com/api.js" || got.SiteKeyV3 != "K2" {
		t.Fatalf("unexpected config %+v", got)
	}
}

func TestInit_DeclinedOverwriteLeavesFile(t *testing.T) {
	clearEnv(t)
	original := "components:\n  reCaptcha:\n    site_key_v3: old\n"
	path := writeConfig(t, original)
	prompt := &fakePrompt{
		inputs:   []string{""},
		confirms: []bool{false},
	}

	if _, _, err := run(t, prompt, "init", "--output", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != original {
		t.Fatalf("expected file untouched, got %q", data)
	}
}

func TestInit_RequiresSiteKey(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "recaptcha.yaml")
	prompt := &fakePrompt{inputs: []string{"", "   "}}

	if _, _, err := run(t, prompt, "init", "--output", path); err == nil {
		t.Fatalf("expected an error for an empty site key")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file to be written")
	}
}

func TestRender_UsesConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "components:\n  reCaptcha:\n    site_key_v3: FileKey\n    js_api_url: //www.recaptcha.net/recaptcha/api.js\n")

	out, _, err := run(t, &fakePrompt{},
		"render", "--config", path,
		"--url", "/signup?plan=pro",
		"--name", "Signup[captcha]",
		"--nonce", "abc",
		"--suffix", "T1",
		"--attr", "class=captcha",
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, needle := range []string{
		`<input type="hidden" name="Signup[captcha]" id="signup-captcha" class="captcha">`,
		`<script nonce="abc">jQuery(function ($) {`,
		"function initSetReCaptchaTokenT1() {",
		`grecaptcha.execute("FileKey", {action: "/signupplanpro"})`,
		`jQuery(document.getElementById("signup-captcha")).val(token);`,
		`script.setAttribute("src", "//www.recaptcha.net/recaptcha/api.js?render=FileKey");`,
	} {
		if !strings.Contains(out, needle) {
			t.Fatalf("output missing %q:\n%s", needle, out)
		}
	}
}

func TestRender_FlagsAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "components:\n  reCaptcha:\n    site_key_v3: FileKey\n")
	t.Setenv("RECAPTCHA_SITE_KEY_V3", "EnvKey")

	out, _, err := run(t, &fakePrompt{}, "render", "--config", path, "--suffix", "x")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `grecaptcha.execute("EnvKey"`) {
		t.Fatalf("expected env site key to win over the file:\n%s", out)
	}

	out, _, err = run(t, &fakePrompt{}, "render", "--config", path, "--site-key", "FlagKey", "--action", "login", "--suffix", "x")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `grecaptcha.execute("FlagKey", {action: "login"})`) {
		t.Fatalf("expected flag site key and action:\n%s", out)
	}
}

func TestRender_TemplatesDirOverridesBuiltins(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	custom := "console.log('ready', {{ site_key|jsstr }});"
	if err := os.WriteFile(filepath.Join(dir, "templates", "ready.js.tpl"), []byte(custom), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
	path := writeConfig(t, "components: {}\n")

	out, _, err := run(t, &fakePrompt{}, "render", "--config", path, "--site-key", "K", "--templates", dir)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `console.log('ready', "K");`) {
		t.Fatalf("expected the directory ready template:\n%s", out)
	}
	if !strings.Contains(out, "?render=K") {
		t.Fatalf("expected the built-in bootstrap template:\n%s", out)
	}
}

func TestRender_NoSiteKeyWarns(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "components: {}\n")

	out, errOut, err := run(t, &fakePrompt{}, "render", "--config", path)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
	if !strings.Contains(errOut, "nothing to render") {
		t.Fatalf("expected a warning, got %q", errOut)
	}
}

func TestRender_BadLogLevel(t *testing.T) {
	clearEnv(t)
	if _, _, err := run(t, &fakePrompt{}, "render", "--loglevel", "loud"); err == nil {
		t.Fatalf("expected an error for an unknown log level")
	}
}

func TestServer_FormAndPost(t *testing.T) {
	clearEnv(t)
	logger, err := newLogger(&bytes.Buffer{}, "debug")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	app := &App{viper: viper.New(), logger: logger}
	reg := config.NewRegistry()
	reg.MustRegister(config.DefaultComponentName, config.Config{SiteKeyV3: "DemoKey"})
	e, err := app.newServer(reg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status %d", rec.Code)
	}
	doc := testsupport.MustParseHTML(t, rec.Body.String())
	attrs := testsupport.Attrs(t, doc, `form input[type="hidden"]`)
	if attrs["name"] != DemoFieldName || attrs["id"] != "recaptcha" {
		t.Fatalf("unexpected input attributes %v", attrs)
	}
	if !strings.Contains(rec.Body.String(), `"//www.google.com/recaptcha/api.js?render=DemoKey"`) {
		t.Fatalf("expected bootstrap script in page:\n%s", rec.Body.String())
	}

	form := url.Values{DemoFieldName: {"tok"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "token received (3 bytes)") {
		t.Fatalf("unexpected POST response %d %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a token, got %d", rec.Code)
	}
}
