package health

import "testing"

func TestAggregate(t *testing.T) {
	healthy := ComponentResult{Status: StatusHealthy, Count: 1}
	degraded := ComponentResult{Status: StatusDegraded, Count: 0}
	unhealthy := ComponentResult{Status: StatusUnhealthy, Count: 0}

	tests := []struct {
		name       string
		components Components
		want       Status
	}{
		{
			name:       "all healthy",
			components: Components{DNS: healthy, Pages: healthy, Workers: healthy, SSL: healthy},
			want:       StatusHealthy,
		},
		{
			name:       "degraded ssl dominates healthy",
			components: Components{DNS: healthy, Pages: healthy, Workers: healthy, SSL: degraded},
			want:       StatusDegraded,
		},
		{
			name:       "unhealthy dominates degraded",
			components: Components{DNS: unhealthy, Pages: healthy, Workers: healthy, SSL: degraded},
			want:       StatusUnhealthy,
		},
		{
			name:       "single unhealthy component dominates",
			components: Components{DNS: healthy, Pages: healthy, Workers: unhealthy, SSL: healthy},
			want:       StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Aggregate(tt.components); got != tt.want {
				t.Errorf("Aggregate() = %q, want %q", got, tt.want)
			}
		})
	}
}

// The verdict must not depend on which component carries a status, only
// on the worst status present.
func TestAggregateOrderInvariance(t *testing.T) {
	statuses := []Status{StatusHealthy, StatusDegraded, StatusUnhealthy, StatusHealthy}
	results := make([]ComponentResult, len(statuses))
	for i, s := range statuses {
		results[i] = ComponentResult{Status: s}
	}

	permutations := [][4]int{
		{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2},
	}
	for _, p := range permutations {
		c := Components{DNS: results[p[0]], Pages: results[p[1]], Workers: results[p[2]], SSL: results[p[3]]}
		if got := Aggregate(c); got != StatusUnhealthy {
			t.Errorf("Aggregate(%v) = %q, want unhealthy", p, got)
		}
	}
}

func TestAggregateStrict(t *testing.T) {
	tests := []struct {
		name         string
		dnsValid     bool
		dnsIssues    int
		pagesValid   bool
		workersValid bool
		sslValid     bool
		want         Status
	}{
		{"all valid", true, 0, true, true, true, StatusHealthy},
		{"small dns drift tolerated", false, 2, true, true, true, StatusDegraded},
		{"large dns drift", false, 3, true, true, true, StatusUnhealthy},
		{"certificates missing while rest passes", true, 0, true, true, false, StatusDegraded},
		{"certificates missing and workers missing", true, 0, true, false, false, StatusUnhealthy},
		{"hosting missing", true, 0, false, true, true, StatusUnhealthy},
		{"small dns drift with hosting missing", false, 1, false, true, true, StatusDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateStrict(tt.dnsValid, tt.dnsIssues, tt.pagesValid, tt.workersValid, tt.sslValid)
			if got != tt.want {
				t.Errorf("AggregateStrict() = %q, want %q", got, tt.want)
			}
		})
	}
}
