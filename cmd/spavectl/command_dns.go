package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehyar500/spavevisionapp/internal/deploy"
)

var dnsCmd = &cobra.Command{
	Use:   "validate-dns",
	Short: "Diff DNS records against the expected set, optionally fixing drift",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateDNS(cmd.Context())
	},
}

func registerDNSCommand(root *cobra.Command) {
	root.AddCommand(dnsCmd)

	dnsCmd.Flags().BoolVar(&autoFix, "fix", false, "Create or update out-of-sync records")
	dnsCmd.Flags().StringVarP(&environment, "environment", "e", "production", "Deployment target whose record set to validate")
}

func validateDNS(ctx context.Context) error {
	app, err := setup()
	if err != nil {
		return err
	}

	desired := deploy.ExpectedRecords(app.cfg, environment)
	result, err := app.engine.Reconcile(ctx, desired, autoFix)
	if err != nil {
		return err
	}

	if err := printReport(result); err != nil {
		return err
	}

	if !result.Valid && !result.Fixed {
		return fmt.Errorf("dns validation failed: %d issues", len(result.Issues))
	}
	return nil
}
