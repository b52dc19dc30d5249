package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recaptcha/pkg/recaptcha"
	"github.com/goliatone/go-recaptcha/pkg/view"
)

type renderFlags struct {
	url       string
	name      string
	id        string
	action    string
	callback  string
	siteKey   string
	scriptURL string
	nonce     string
	suffix    string
	attrs     map[string]string
}

func newRenderCommand(app *App) *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the hidden input and the page scripts for a widget.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runRender(cmd, f)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&f.url, "url", "/", "request URI the page is rendered for")
	flags.StringVar(&f.name, "name", "reCaptcha", "hidden input name")
	flags.StringVar(&f.id, "id", "", "widget id used to prefix the derived input id")
	flags.StringVar(&f.action, "action", "", "action label (derived from --url when empty)")
	flags.StringVar(&f.callback, "callback", "", "global JavaScript function receiving each token")
	flags.StringVar(&f.siteKey, "site-key", "", "site key (overrides the config file)")
	flags.StringVar(&f.scriptURL, "script-url", "", "API script URL (overrides the config file)")
	flags.StringVar(&f.nonce, "nonce", "", "CSP nonce for the emitted script tags")
	flags.StringToStringVar(&f.attrs, "attr", nil, "extra input attribute, e.g. --attr class=captcha")
	flags.StringVar(&f.suffix, "suffix", "", "fixed function suffix, for reproducible output")
	_ = flags.MarkHidden("suffix")
	return cmd
}

func (a *App) runRender(cmd *cobra.Command, f *renderFlags) error {
	reg, err := a.registry()
	if err != nil {
		return err
	}

	opts, err := a.widgetOptions(reg)
	if err != nil {
		return err
	}
	opts = append(opts,
		recaptcha.WithName(f.name),
		recaptcha.WithID(f.id),
		recaptcha.WithAction(f.action),
		recaptcha.WithCallback(f.callback),
		recaptcha.WithFieldOptions(f.attrs),
	)
	if f.suffix != "" {
		suffix := f.suffix
		opts = append(opts, recaptcha.WithSuffixFunc(func() string { return suffix }))
	}

	v := view.New(f.url, view.WithNonce(f.nonce))
	widget := recaptcha.New(f.siteKey, f.scriptURL, opts...)
	input, err := widget.Render(v)
	if err != nil {
		return err
	}
	if input == "" {
		a.logger.Warnf("no site key for component %q; nothing to render", a.componentName())
		return nil
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, input); err != nil {
		return err
	}
	return v.WriteFooter(out)
}
