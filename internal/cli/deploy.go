package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/tiation/tiation-active-directory-setup/internal/deploy"
)

func newDeployCommand(app *App) *Command {
	var (
		forestDomain  string
		adminPassword string
		dnsProvider   string
	)

	return &Command{
		Name:    "deploy",
		Summary: "Deploy a new AD forest",
		Usage:   "ad-setup deploy --forest <domain> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("deploy", pflag.ContinueOnError)
			flagSet.StringVar(&forestDomain, "forest", "", "domain name for the AD forest")
			flagSet.StringVar(&adminPassword, "admin-password", "", "administrator password (prompted when omitted)")
			flagSet.StringVar(&dnsProvider, "dns-provider", "namecheap", "DNS provider to use")
			return flagSet
		},
		Run: func(args []string) error {
			if forestDomain == "" {
				return errors.New("--forest is required")
			}

			password := adminPassword
			if password == "" {
				var err error
				password, err = promptPasswordWithConfirmation(app.Prompter)
				if err != nil {
					return err
				}
			}

			spec := deploy.ForestSpec{
				Domain:        forestDomain,
				AdminPassword: password,
				DNSProvider:   dnsProvider,
			}
			if err := spec.Validate(); err != nil {
				return err
			}

			fmt.Fprintf(app.Stdout, "Deploying AD forest: %s\n", spec.Domain)
			fmt.Fprintf(app.Stdout, "  DNS provider: %s\n", spec.DNSProvider)
			fmt.Fprintln(app.Stdout)
			fmt.Fprintln(app.Stdout, "Planned steps:")
			for i, step := range spec.Steps() {
				fmt.Fprintf(app.Stdout, "  %d. %s\n", i+1, step)
			}
			fmt.Fprintln(app.Stdout)

			engine := deploy.NewEngine(app.Logger)
			return engine.Deploy(context.Background(), spec)
		},
	}
}

func newDeployMultiCommand(app *App) *Command {
	var (
		primary   string
		secondary string
		trustType string
	)

	return &Command{
		Name:    "deploy-multi",
		Summary: "Deploy multiple AD forests with a trust relationship",
		Usage:   "ad-setup deploy-multi --primary <domain> --secondary <domain> [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("deploy-multi", pflag.ContinueOnError)
			flagSet.StringVar(&primary, "primary", "", "primary forest domain")
			flagSet.StringVar(&secondary, "secondary", "", "secondary forest domain")
			flagSet.StringVar(&trustType, "trust-type", string(deploy.TrustBidirectional),
				"trust direction: bidirectional, oneway-in or oneway-out")
			return flagSet
		},
		Run: func(args []string) error {
			if primary == "" {
				return errors.New("--primary is required")
			}
			if secondary == "" {
				return errors.New("--secondary is required")
			}
			trust, err := deploy.ParseTrustType(trustType)
			if err != nil {
				return err
			}

			spec := deploy.MultiForestSpec{
				Primary:   primary,
				Secondary: secondary,
				Trust:     trust,
			}
			if err := spec.Validate(); err != nil {
				return err
			}

			fmt.Fprintln(app.Stdout, "Deploying multi-forest environment:")
			fmt.Fprintf(app.Stdout, "  Primary:   %s\n", spec.Primary)
			fmt.Fprintf(app.Stdout, "  Secondary: %s\n", spec.Secondary)
			fmt.Fprintf(app.Stdout, "  Trust:     %s\n", spec.Trust)
			fmt.Fprintln(app.Stdout)
			fmt.Fprintln(app.Stdout, "Planned steps:")
			for i, step := range spec.Steps() {
				fmt.Fprintf(app.Stdout, "  %d. %s\n", i+1, step)
			}
			fmt.Fprintln(app.Stdout)

			engine := deploy.NewEngine(app.Logger)
			return engine.DeployMulti(context.Background(), spec)
		},
	}
}

// promptPasswordWithConfirmation asks for the administrator password twice,
// matching interactive tools that never echo secrets.
func promptPasswordWithConfirmation(prompter Prompter) (string, error) {
	password, err := prompter.Secret("Enter administrator password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := prompter.Secret("Confirm administrator password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password confirmation: %w", err)
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}
