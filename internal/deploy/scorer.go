package deploy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mehyar500/spavevisionapp/internal/config"
	"github.com/mehyar500/spavevisionapp/internal/provider"
	"github.com/mehyar500/spavevisionapp/internal/reconcile"
)

const (
	StatusReady  = "ready"
	StatusIssues = "issues"
	StatusFailed = "failed"
)

// Fixed remediation hints, one per failing check. They are appended
// independently, never deduplicated or prioritized.
const (
	recFixDNS      = "run validate-dns --fix to reconcile DNS records before deploying"
	recCreatePages = "create the static hosting project with prepare-deployment --fix"
	recDeployAPI   = "deploy compute functions before static hosting to guarantee API availability"
	recCheckCerts  = "verify certificate provisioning for the zone; shared certificates may cover it"
)

// Report is the readiness verdict for one deployment target. Field
// names are part of the CLI contract.
type Report struct {
	Environment      string   `json:"environment"`
	ReadinessPercent int      `json:"readinessPercent"`
	Status           string   `json:"status"`
	Issues           []string `json:"issues"`
	Warnings         []string `json:"warnings"`
	Recommendations  []string `json:"recommendations"`
}

type Scorer struct {
	client provider.Client
	engine *reconcile.Engine
	cfg    *config.Config
}

func NewScorer(client provider.Client, engine *reconcile.Engine, cfg *config.Config) *Scorer {
	return &Scorer{client: client, engine: engine, cfg: cfg}
}

// Score derives the readiness of env from live state: four equally
// weighted checks (DNS validity, hosting project, compute deployments,
// certificate health) feed the percentage. Everything is re-derived on
// each call; nothing persists between deployments.
func (s *Scorer) Score(ctx context.Context, env string) (Report, error) {
	dnsResult, err := s.engine.Reconcile(ctx, ExpectedRecords(s.cfg, env), false)
	if err != nil {
		return Report{}, fmt.Errorf("reconcile dns: %w", err)
	}

	projects, err := s.client.ListPagesProjects(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list pages projects: %w", err)
	}

	workers, err := s.client.ListWorkers(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list workers: %w", err)
	}

	// Certificate read is fail-soft: an error counts as no coverage.
	packs, err := s.client.ListCertificatePacks(ctx, s.cfg.Cloudflare.Zone)
	if err != nil {
		slog.Warn("Certificate check failed, treating as no coverage", "error", err)
		packs = nil
	}

	dnsValid := dnsResult.Valid
	pagesValid := hasProject(projects, s.cfg.Pages.Project)
	missing := missingWorkers(s.cfg.ExpectedWorkers(env), workers)
	workersValid := len(missing) == 0
	sslValid := len(packs) > 0

	report := Report{
		Environment:     env,
		Issues:          []string{},
		Warnings:        []string{},
		Recommendations: []string{},
	}

	passed := 0
	for _, ok := range []bool{dnsValid, pagesValid, workersValid, sslValid} {
		if ok {
			passed++
		}
	}
	report.ReadinessPercent = passed * 100 / 4

	switch {
	case report.ReadinessPercent >= 100:
		report.Status = StatusReady
	case report.ReadinessPercent >= 75:
		report.Status = StatusIssues
	default:
		report.Status = StatusFailed
	}

	if !dnsValid {
		report.Issues = append(report.Issues, fmt.Sprintf("dns: %d records out of sync", len(dnsResult.Issues)))
		report.Recommendations = append(report.Recommendations, recFixDNS)
	}
	if !pagesValid {
		report.Issues = append(report.Issues, fmt.Sprintf("pages: project %s not found", s.cfg.Pages.Project))
		report.Recommendations = append(report.Recommendations, recCreatePages)
	}
	if !workersValid {
		report.Warnings = append(report.Warnings, fmt.Sprintf("workers: missing deployments %v", missing))
		report.Recommendations = append(report.Recommendations, recDeployAPI)
	}
	if !sslValid {
		report.Warnings = append(report.Warnings, "certificates: no certificate packs found")
		report.Recommendations = append(report.Recommendations, recCheckCerts)
	}

	slog.Info("Deployment readiness scored", "environment", env, "percent", report.ReadinessPercent, "status", report.Status)
	return report, nil
}
