package deploy

import (
	"github.com/mehyar500/spavevisionapp/internal/config"
	"github.com/mehyar500/spavevisionapp/internal/provider"
)

// ExpectedRecords returns the DNS records env must have. Explicit
// config wins; otherwise production expects the www and api hostnames
// and staging expects their staging counterparts, pointed at the
// hosting project and the workers subdomain respectively.
func ExpectedRecords(cfg *config.Config, env string) []provider.RecordSpec {
	envCfg := cfg.Environment(env)
	if len(envCfg.Records) > 0 {
		specs := make([]provider.RecordSpec, 0, len(envCfg.Records))
		for _, r := range envCfg.Records {
			specs = append(specs, provider.RecordSpec{
				Name:    r.Name,
				Type:    r.Type,
				Content: r.Content,
				Proxied: r.Proxied,
				TTL:     r.TTL,
			})
		}
		return specs
	}

	zone := cfg.Cloudflare.Zone
	hosting := cfg.Pages.Project + ".pages.dev"
	compute := cfg.Pages.Project + ".workers.dev"

	if env == "staging" {
		return []provider.RecordSpec{
			{Name: "staging." + zone, Type: "CNAME", Content: hosting, Proxied: true, TTL: 1},
			{Name: "api-staging." + zone, Type: "CNAME", Content: compute, Proxied: true, TTL: 1},
		}
	}
	return []provider.RecordSpec{
		{Name: "www." + zone, Type: "CNAME", Content: hosting, Proxied: true, TTL: 1},
		{Name: "api." + zone, Type: "CNAME", Content: compute, Proxied: true, TTL: 1},
	}
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
