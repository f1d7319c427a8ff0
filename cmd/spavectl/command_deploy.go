package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mehyar500/spavevisionapp/internal/deploy"
)

var checkCmd = &cobra.Command{
	Use:     "deployment-check <environment>",
	Aliases: []string{"deployment-report"},
	Short:   "Score deployment readiness for an environment",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deploymentCheck(cmd.Context(), args[0])
	},
}

var prepareCmd = &cobra.Command{
	Use:   "prepare-deployment <environment>",
	Short: "Prepare an environment: hosting project, compute deployments, DNS",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return prepareDeployment(cmd.Context(), args[0])
	},
}

func registerDeployCommands(root *cobra.Command) {
	root.AddCommand(checkCmd)
	root.AddCommand(prepareCmd)

	prepareCmd.Flags().BoolVar(&autoFix, "fix", false, "Create the hosting project and fix DNS drift")
}

func deploymentCheck(ctx context.Context, env string) error {
	app, err := setup()
	if err != nil {
		return err
	}

	scorer := deploy.NewScorer(app.client, app.engine, app.cfg)
	report, err := scorer.Score(ctx, env)
	if err != nil {
		return err
	}

	if err := printReport(report); err != nil {
		return err
	}

	if report.Status != deploy.StatusReady {
		return fmt.Errorf("environment %s not ready: %d%%", env, report.ReadinessPercent)
	}
	return nil
}

func prepareDeployment(ctx context.Context, env string) error {
	app, err := setup()
	if err != nil {
		return err
	}

	orchestrator := deploy.NewOrchestrator(app.client, app.engine, app.cfg)
	result, err := orchestrator.Prepare(ctx, env, deploy.Options{
		ValidateDNS:   true,
		AutoFixDNS:    autoFix,
		EnsureHosting: autoFix,
	})
	if err != nil {
		return err
	}

	if err := printReport(result); err != nil {
		return err
	}

	if !result.Ready {
		return fmt.Errorf("environment %s not ready: %d issues", env, len(result.Issues))
	}
	return nil
}
