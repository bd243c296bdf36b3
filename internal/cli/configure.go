package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/tiation/tiation-active-directory-setup/internal/config"
)

func newConfigureCommand(app *App) *Command {
	return &Command{
		Name:    "configure",
		Summary: "Configure AD-Setup with your credentials and preferences",
		Usage:   "ad-setup configure",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("configure", pflag.ContinueOnError)
		},
		Run: func(args []string) error {
			fmt.Fprintln(app.Stdout, "AD-Setup Configuration Wizard")
			fmt.Fprintln(app.Stdout, strings.Repeat("=", 40))

			apiKey, err := app.Prompter.Secret("Enter your Namecheap API key: ")
			if err != nil {
				return fmt.Errorf("failed to read API key: %w", err)
			}
			apiUser, err := app.Prompter.Line("Enter your Namecheap API username: ")
			if err != nil {
				return fmt.Errorf("failed to read API username: %w", err)
			}

			environment, err := app.Prompter.Line(
				fmt.Sprintf("Environment (sandbox/production) [%s]: ", config.EnvironmentProduction))
			if err != nil {
				return fmt.Errorf("failed to read environment: %w", err)
			}
			if environment == "" {
				environment = config.EnvironmentProduction
			}

			creds := &config.Credentials{Namecheap: config.NamecheapCredentials{
				APIUser:     apiUser,
				APIKey:      apiKey,
				Environment: environment,
			}}
			if err := config.SaveCredentials(app.Paths.Credentials, creds); err != nil {
				return err
			}

			fmt.Fprintf(app.Stdout, "Configuration saved to %s\n", app.Paths.Credentials)
			return nil
		},
	}
}
