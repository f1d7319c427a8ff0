package health

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// Severity orders statuses for precedence and metrics export.
func (s Status) Severity() int {
	switch s {
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 2
	default:
		return 0
	}
}

// ComponentResult is the verdict for one subsystem probe.
type ComponentResult struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// Components holds the per-subsystem results of one health check.
type Components struct {
	DNS     ComponentResult `json:"dns"`
	Pages   ComponentResult `json:"pages"`
	Workers ComponentResult `json:"workers"`
	SSL     ComponentResult `json:"ssl"`
}

// Aggregate folds component results into a single verdict. Unhealthy
// dominates degraded, degraded dominates healthy, regardless of which
// component triggered it.
func Aggregate(c Components) Status {
	overall := StatusHealthy
	for _, r := range []ComponentResult{c.DNS, c.Pages, c.Workers, c.SSL} {
		if r.Status.Severity() > overall.Severity() {
			overall = r.Status
		}
	}
	return overall
}

// AggregateStrict is the stricter precedence used for infrastructure
// validation. Small DNS drift (at most two record issues) is tolerated
// as degraded, as is missing certificate coverage while everything else
// passes; anything more is unhealthy. This asymmetry is deliberate
// operational policy.
func AggregateStrict(dnsValid bool, dnsIssues int, pagesValid, workersValid, sslValid bool) Status {
	if dnsValid && pagesValid && workersValid && sslValid {
		return StatusHealthy
	}
	if !dnsValid && dnsIssues <= 2 {
		return StatusDegraded
	}
	if !sslValid && dnsValid && pagesValid && workersValid {
		return StatusDegraded
	}
	return StatusUnhealthy
}
