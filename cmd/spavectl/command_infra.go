package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehyar500/spavevisionapp/internal/deploy"
	"github.com/mehyar500/spavevisionapp/internal/health"
)

var infraCmd = &cobra.Command{
	Use:   "validate-infrastructure",
	Short: "Validate DNS, hosting, compute and certificates with strict precedence",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateInfrastructure(cmd.Context())
	},
}

func registerInfraCommand(root *cobra.Command) {
	root.AddCommand(infraCmd)

	infraCmd.Flags().BoolVar(&autoFix, "fix", false, "Create or update out-of-sync DNS records")
}

func validateInfrastructure(ctx context.Context) error {
	app, err := setup()
	if err != nil {
		return err
	}

	validator := newValidator(app)
	report, err := validator.ValidateInfrastructure(ctx, autoFix)
	if err != nil {
		return err
	}

	if err := printReport(report); err != nil {
		return err
	}

	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("infrastructure unhealthy: %d issues", len(report.Issues))
	}
	return nil
}

func newValidator(app *app) *health.Validator {
	return health.NewValidator(app.client, app.engine, health.ValidatorConfig{
		Zone:            app.cfg.Cloudflare.Zone,
		PagesProject:    app.cfg.Pages.Project,
		ExpectedWorkers: app.cfg.Workers.Expected,
		ExpectedRecords: deploy.ExpectedRecords(app.cfg, "production"),
	}, app.metrics)
}
