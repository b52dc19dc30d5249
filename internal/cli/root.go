// Package cli implements the recaptchactl commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-recaptcha/pkg/recaptcha"
	"github.com/goliatone/go-recaptcha/pkg/recaptcha/config"
	"github.com/goliatone/go-recaptcha/pkg/render/template/gotemplate"
)

// EnvPrefix scopes the environment variables viper reads, for example
// RECAPTCHA_LOGLEVEL or RECAPTCHA_ADDR.
const EnvPrefix = "RECAPTCHA"

// ConfigName is the base name searched for when --config is not set.
const ConfigName = "recaptcha"

// App carries the dependencies shared by every command.
type App struct {
	out    io.Writer
	errOut io.Writer
	prompt PromptDriver
	viper  *viper.Viper
	logger *logrus.Logger
}

// Option configures an App.
type Option func(*App)

// WithOutput redirects command output and log output.
func WithOutput(out, errOut io.Writer) Option {
	return func(a *App) {
		if out != nil {
			a.out = out
		}
		if errOut != nil {
			a.errOut = errOut
		}
	}
}

// WithPrompt replaces the interactive prompt driver.
func WithPrompt(driver PromptDriver) Option {
	return func(a *App) {
		if driver != nil {
			a.prompt = driver
		}
	}
}

// WithViper injects the viper instance used for flag and env binding.
func WithViper(v *viper.Viper) Option {
	return func(a *App) {
		if v != nil {
			a.viper = v
		}
	}
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	app := &App{
		out:    os.Stdout,
		errOut: os.Stderr,
		prompt: NewSurveyDriver(),
		viper:  viper.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	root := &cobra.Command{
		Use:           "recaptchactl",
		Short:         "Configure and preview reCAPTCHA v3 form widgets.",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(app.errOut, app.viper.GetString("loglevel"))
			if err != nil {
				return err
			}
			app.logger = logger
			return nil
		},
	}
	root.SetOut(app.out)
	root.SetErr(app.errOut)

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is ./recaptcha.yaml or $HOME/.recaptcha.yaml)")
	flags.StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	flags.String("component", config.DefaultComponentName, "component name to read from the config file")
	flags.String("templates", "", "directory whose templates override the built-in ones (e.g. templates/ready.js.tpl)")

	v := app.viper
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("loglevel", flags.Lookup("loglevel"))
	_ = v.BindPFlag("component", flags.Lookup("component"))
	_ = v.BindPFlag("templates", flags.Lookup("templates"))

	root.AddCommand(
		newInitCommand(app),
		newRenderCommand(app),
		newServeCommand(app),
	)
	return root
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// configPath resolves the config file: --config or RECAPTCHA_CONFIG first,
// then recaptcha.yaml in the working directory, then .recaptcha.yaml in the
// home directory. An empty result means no file was found.
func (a *App) configPath() (string, error) {
	if path := strings.TrimSpace(a.viper.GetString("config")); path != "" {
		return homedir.Expand(path)
	}

	candidates := []string{ConfigName + ".yaml"}
	if home, err := homedir.Dir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "."+ConfigName+".yaml"))
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", nil
}

// registry loads the component registry from the config file and overlays
// RECAPTCHA_SITE_KEY_V3 / RECAPTCHA_JS_API_URL onto the selected component.
func (a *App) registry() (*config.Registry, error) {
	path, err := a.configPath()
	if err != nil {
		return nil, err
	}

	reg := config.NewRegistry()
	if path != "" {
		a.logger.Debugf("loading config from %s", path)
		if reg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}

	envCfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	name := a.componentName()
	current, _ := reg.Lookup(name)
	if envCfg.SiteKeyV3 != "" {
		current.SiteKeyV3 = envCfg.SiteKeyV3
	}
	if envCfg.JSAPIURL != "" {
		current.JSAPIURL = envCfg.JSAPIURL
	}
	if current != (config.Config{}) {
		if err := reg.Register(name, current); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// widgetOptions returns the options every command applies to its widgets.
func (a *App) widgetOptions(reg *config.Registry) ([]recaptcha.OptionFn, error) {
	opts := []recaptcha.OptionFn{
		recaptcha.WithRegistry(reg),
		recaptcha.WithConfigName(a.componentName()),
		recaptcha.WithLogger(a.logger),
	}
	dir := strings.TrimSpace(a.viper.GetString("templates"))
	if dir == "" {
		return opts, nil
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return nil, err
	}
	engine, err := gotemplate.New(
		gotemplate.WithBaseDir(dir),
		gotemplate.WithFS(recaptcha.TemplatesFS()),
	)
	if err != nil {
		return nil, err
	}
	a.logger.Debugf("templates in %s override the built-in ones", dir)
	return append(opts, recaptcha.WithTemplateRenderer(engine)), nil
}

func (a *App) componentName() string {
	if name := strings.TrimSpace(a.viper.GetString("component")); name != "" {
		return name
	}
	return config.DefaultComponentName
}
