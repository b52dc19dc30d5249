package cli

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	recaptchaecho "github.com/goliatone/go-recaptcha/adapters/echo"
	"github.com/goliatone/go-recaptcha/pkg/recaptcha"
	"github.com/goliatone/go-recaptcha/pkg/recaptcha/config"
	"github.com/goliatone/go-recaptcha/pkg/view"
)

// jQueryURL is loaded by the demo page; the widget scripts expect jQuery.
const jQueryURL = "https://code.jquery.com/jquery-3.7.1.min.js"

// DemoFieldName is the hidden input name used by the demo form.
const DemoFieldName = "reCaptcha"

func newServeCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a demo form protected by the widget.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := app.registry()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			e, err := app.newServer(reg)
			if err != nil {
				return err
			}
			return app.serve(ctx, app.viper.GetString("addr"), e)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	_ = app.viper.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func (a *App) serve(ctx context.Context, addr string, e *echo.Echo) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("demo form listening on %s", addr)
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

// newServer wires the demo routes: GET / renders the form, POST / reports
// whether a token arrived. Tokens are not verified.
func (a *App) newServer(reg *config.Registry) (*echo.Echo, error) {
	opts, err := a.widgetOptions(reg)
	if err != nil {
		return nil, err
	}
	opts = append(opts, recaptcha.WithName(DemoFieldName))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(recaptchaecho.Middleware())

	e.GET("/", func(c echo.Context) error {
		return recaptchaecho.Render(c, demoPage(recaptcha.New("", "", opts...)))
	})
	e.POST("/", func(c echo.Context) error {
		token := strings.TrimSpace(c.FormValue(DemoFieldName))
		if token == "" {
			a.logger.Warnf("form posted without a token")
			return c.String(http.StatusBadRequest, "no token received\n")
		}
		a.logger.Debugf("form posted with a %d byte token", len(token))
		return c.String(http.StatusOK, fmt.Sprintf("token received (%d bytes)\n", len(token)))
	})
	return e, nil
}

func demoPage(widget *recaptcha.Widget) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v, _ := view.FromContext(ctx)
		input, err := widget.Render(v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<!doctype html>
<html>
<head><meta charset="utf-8"><title>reCAPTCHA demo</title><script src="%s"></script></head>
<body>
<form method="post" action="/">
%s
<button type="submit">Send</button>
</form>
`, html.EscapeString(jQueryURL), input); err != nil {
			return err
		}
		if input == "" {
			if _, err := io.WriteString(w, "<p>No site key configured.</p>\n"); err != nil {
				return err
			}
		}
		if err := v.WriteFooter(w); err != nil {
			return err
		}
		_, err = io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}
