package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-recaptcha/pkg/recaptcha/config"
)

var scriptURLChoices = []string{
	config.DefaultJSAPIURL,
	config.AlternativeJSAPIURL,
	"custom",
}

func newInitCommand(app *App) *cobra.Command {
	var (
		output string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively write a reCAPTCHA component config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := homedir.Expand(output)
			if err != nil {
				return err
			}
			return app.runInit(cmd, path, force)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", ConfigName+".yaml", "file to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing component without asking")
	return cmd
}

func (a *App) runInit(cmd *cobra.Command, path string, force bool) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reg := config.NewRegistry()
	if _, err := os.Stat(path); err == nil {
		existing, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		reg = existing
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cli: stat %s: %w", path, err)
	}

	name, err := a.prompt.Input(ctx, InputConfig{
		Message:   "Component name",
		Default:   a.componentName(),
		Help:      "Widgets look up this name in the shared configuration.",
		Validator: required("component name"),
	})
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)

	if _, exists := reg.Lookup(name); exists && !force {
		overwrite, err := a.prompt.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Component %q already exists in %s. Overwrite?", name, path),
		})
		if err != nil {
			return err
		}
		if !overwrite {
			a.logger.Infof("left %s unchanged", path)
			return nil
		}
	}

	siteKey, err := a.prompt.Input(ctx, InputConfig{
		Message:   "Site key (v3)",
		Help:      "The public key from the reCAPTCHA admin console.",
		Validator: required("site key"),
	})
	if err != nil {
		return err
	}

	choice, err := a.prompt.Select(ctx, SelectConfig{
		Message: "Script URL",
		Options: scriptURLChoices,
		Help:    "Use www.recaptcha.net where www.google.com is not reachable.",
	})
	if err != nil {
		return err
	}
	var scriptURL string
	switch {
	case choice >= 0 && choice < len(scriptURLChoices)-1:
		scriptURL = scriptURLChoices[choice]
	default:
		if scriptURL, err = a.prompt.Input(ctx, InputConfig{
			Message:   "Custom script URL",
			Validator: required("script URL"),
		}); err != nil {
			return err
		}
	}

	if err := reg.Register(name, config.Config{SiteKeyV3: siteKey, JSAPIURL: scriptURL}); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := config.Save(&buf, reg); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cli: write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
	return nil
}

func required(label string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}
