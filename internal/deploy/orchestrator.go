package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mehyar500/spavevisionapp/internal/config"
	"github.com/mehyar500/spavevisionapp/internal/provider"
	"github.com/mehyar500/spavevisionapp/internal/reconcile"
)

// Options controls which preparation steps run.
type Options struct {
	ValidateDNS   bool
	AutoFixDNS    bool
	EnsureHosting bool
}

// Resources lists what preparation observed or created.
type Resources struct {
	PagesProject   string            `json:"pagesProject,omitempty"`
	Workers        []string          `json:"workers,omitempty"`
	MissingWorkers []string          `json:"missingWorkers,omitempty"`
	DNS            *reconcile.Result `json:"dns,omitempty"`
}

// PrepareResult reports one preparation run. Field names are part of
// the CLI contract. Warnings never affect Ready.
type PrepareResult struct {
	Ready     bool      `json:"ready"`
	Issues    []string  `json:"issues"`
	Warnings  []string  `json:"warnings"`
	Resources Resources `json:"resources"`
}

// Orchestrator prepares a deployment target. Steps run sequentially and
// independently; there is no rollback of earlier steps when a later one
// fails.
type Orchestrator struct {
	client provider.Client
	engine *reconcile.Engine
	cfg    *config.Config
}

func NewOrchestrator(client provider.Client, engine *reconcile.Engine, cfg *config.Config) *Orchestrator {
	return &Orchestrator{client: client, engine: engine, cfg: cfg}
}

func (o *Orchestrator) Prepare(ctx context.Context, env string, opts Options) (PrepareResult, error) {
	result := PrepareResult{
		Issues:   []string{},
		Warnings: []string{},
	}

	// Step 1: hosting project. Absence is a hard issue; so is a failed
	// create when EnsureHosting asked for one.
	project := o.cfg.Pages.Project
	projects, err := o.client.ListPagesProjects(ctx)
	if err != nil {
		return result, fmt.Errorf("list pages projects: %w", err)
	}

	switch {
	case hasProject(projects, project):
		result.Resources.PagesProject = project
	case opts.EnsureHosting:
		if _, err := o.client.CreatePagesProject(ctx, project); err != nil {
			slog.Error("Failed to create hosting project", "project", project, "error", err)
			result.Issues = append(result.Issues, fmt.Sprintf("failed to create hosting project %s: %v", project, err))
		} else {
			slog.Info("Created hosting project", "project", project)
			result.Resources.PagesProject = project
		}
	default:
		result.Issues = append(result.Issues, fmt.Sprintf("hosting project %s not found", project))
	}

	// Step 2: compute deployments. Missing ones are warnings, never
	// issues: they block nothing by themselves but are flagged.
	workers, err := o.client.ListWorkers(ctx)
	if err != nil {
		return result, fmt.Errorf("list workers: %w", err)
	}
	for _, w := range workers {
		result.Resources.Workers = append(result.Resources.Workers, w.Name)
	}
	missing := missingWorkers(o.cfg.ExpectedWorkers(env), workers)
	result.Resources.MissingWorkers = missing
	for _, name := range missing {
		result.Warnings = append(result.Warnings, fmt.Sprintf("compute deployment %s not deployed", name))
	}

	// Step 3: DNS.
	dnsValid := true
	if opts.ValidateDNS {
		dnsResult, err := o.engine.Reconcile(ctx, ExpectedRecords(o.cfg, env), opts.AutoFixDNS)
		if err != nil {
			return result, fmt.Errorf("reconcile dns: %w", err)
		}
		result.Resources.DNS = &dnsResult

		// Auto-fixed drift counts as valid for the readiness gate.
		dnsValid = dnsResult.Valid || dnsResult.Fixed
		if !dnsResult.Valid && !opts.AutoFixDNS {
			result.Warnings = append(result.Warnings, fmt.Sprintf("dns: %d records out of sync", len(dnsResult.Issues)))
		}
	}

	result.Ready = len(result.Issues) == 0 && dnsValid
	slog.Info("Environment preparation complete", "environment", env, "ready", result.Ready, "issues", len(result.Issues), "warnings", len(result.Warnings))
	return result, nil
}
