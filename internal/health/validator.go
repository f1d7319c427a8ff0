package health

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mehyar500/spavevisionapp/internal/metrics"
	"github.com/mehyar500/spavevisionapp/internal/provider"
	"github.com/mehyar500/spavevisionapp/internal/reconcile"
)

// Validator runs the fixed set of independent subsystem probes.
type Validator struct {
	client          provider.Client
	engine          *reconcile.Engine
	zone            string
	pagesProject    string
	expectedWorkers []string
	expectedRecords []provider.RecordSpec
	metrics         *metrics.Metrics
}

type ValidatorConfig struct {
	Zone            string
	PagesProject    string
	ExpectedWorkers []string
	ExpectedRecords []provider.RecordSpec
}

func NewValidator(client provider.Client, engine *reconcile.Engine, cfg ValidatorConfig, m *metrics.Metrics) *Validator {
	return &Validator{
		client:          client,
		engine:          engine,
		zone:            cfg.Zone,
		pagesProject:    cfg.PagesProject,
		expectedWorkers: cfg.ExpectedWorkers,
		expectedRecords: cfg.ExpectedRecords,
		metrics:         m,
	}
}

// CheckAll issues the subsystem reads concurrently. The zone, pages and
// workers reads are fail-hard: their error aborts the whole check and
// no partial result set is returned. The certificate read is fail-soft.
func (v *Validator) CheckAll(ctx context.Context) (Components, error) {
	probes := []probe{
		{name: "dns", fatal: true, run: func(ctx context.Context) (int, error) {
			zones, err := v.client.ListZones(ctx)
			return len(zones), err
		}},
		{name: "pages", fatal: true, run: func(ctx context.Context) (int, error) {
			projects, err := v.client.ListPagesProjects(ctx)
			return len(projects), err
		}},
		{name: "workers", fatal: true, run: func(ctx context.Context) (int, error) {
			workers, err := v.client.ListWorkers(ctx)
			return len(workers), err
		}},
		{name: "certificates", fatal: false, run: func(ctx context.Context) (int, error) {
			packs, err := v.client.ListCertificatePacks(ctx, v.zone)
			return len(packs), err
		}},
	}

	counts, err := gather(ctx, probes)
	if err != nil {
		return Components{}, err
	}

	c := Components{
		DNS:     presenceResult(counts[0]),
		Pages:   presenceResult(counts[1]),
		Workers: presenceResult(counts[2]),
		SSL:     certificateResult(counts[3]),
	}

	v.metrics.SetComponentStatus("dns", c.DNS.Status.Severity())
	v.metrics.SetComponentStatus("pages", c.Pages.Status.Severity())
	v.metrics.SetComponentStatus("workers", c.Workers.Status.Severity())
	v.metrics.SetComponentStatus("ssl", c.SSL.Status.Severity())
	return c, nil
}

func presenceResult(count int) ComponentResult {
	status := StatusUnhealthy
	if count > 0 {
		status = StatusHealthy
	}
	return ComponentResult{Status: status, Count: count}
}

// certificateResult treats an empty set as degraded rather than
// unhealthy: automatic or shared certificates may exist outside the
// tracked packs.
func certificateResult(count int) ComponentResult {
	status := StatusDegraded
	if count > 0 {
		status = StatusHealthy
	}
	return ComponentResult{Status: status, Count: count}
}

// InfraReport is the outcome of the strict infrastructure validation.
type InfraReport struct {
	Status Status           `json:"status"`
	DNS    reconcile.Result `json:"dns"`
	Issues []string         `json:"issues"`
}

// ValidateInfrastructure runs the DNS reconciler against the expected
// record set plus presence checks for the hosting project, the expected
// compute deployments and certificate coverage, then folds them with
// the strict precedence. DNS validity reflects the pre-fix snapshot
// even when autoFix repaired the drift.
func (v *Validator) ValidateInfrastructure(ctx context.Context, autoFix bool) (InfraReport, error) {
	dnsResult, err := v.engine.Reconcile(ctx, v.expectedRecords, autoFix)
	if err != nil {
		return InfraReport{}, fmt.Errorf("reconcile dns: %w", err)
	}

	var (
		projects []provider.PagesProject
		workers  []provider.Worker
	)
	probes := []probe{
		{name: "pages", fatal: true, run: func(ctx context.Context) (int, error) {
			var err error
			projects, err = v.client.ListPagesProjects(ctx)
			return len(projects), err
		}},
		{name: "workers", fatal: true, run: func(ctx context.Context) (int, error) {
			var err error
			workers, err = v.client.ListWorkers(ctx)
			return len(workers), err
		}},
		{name: "certificates", fatal: false, run: func(ctx context.Context) (int, error) {
			packs, err := v.client.ListCertificatePacks(ctx, v.zone)
			return len(packs), err
		}},
	}
	counts, err := gather(ctx, probes)
	if err != nil {
		return InfraReport{}, err
	}

	pagesValid := hasProject(projects, v.pagesProject)
	missing := missingWorkers(v.expectedWorkers, workers)
	workersValid := len(missing) == 0
	sslValid := counts[2] > 0

	report := InfraReport{
		Status: AggregateStrict(dnsResult.Valid, len(dnsResult.Issues), pagesValid, workersValid, sslValid),
		DNS:    dnsResult,
		Issues: []string{},
	}

	if !dnsResult.Valid {
		report.Issues = append(report.Issues, fmt.Sprintf("dns: %d records out of sync", len(dnsResult.Issues)))
	}
	if !pagesValid {
		report.Issues = append(report.Issues, fmt.Sprintf("pages: project %s not found", v.pagesProject))
	}
	if !workersValid {
		report.Issues = append(report.Issues, fmt.Sprintf("workers: missing deployments %v", missing))
	}
	if !sslValid {
		report.Issues = append(report.Issues, "certificates: no certificate packs found")
	}

	slog.Info("Infrastructure validation complete", "status", report.Status, "issues", len(report.Issues))
	return report, nil
}

func hasProject(projects []provider.PagesProject, name string) bool {
	for _, p := range projects {
		if p.Name == name {
			return true
		}
	}
	return false
}

func missingWorkers(expected []string, present []provider.Worker) []string {
	deployed := make(map[string]bool, len(present))
	for _, w := range present {
		deployed[w.Name] = true
	}

	var missing []string
	for _, name := range expected {
		if !deployed[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
