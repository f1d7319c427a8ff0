package cloudflare

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudflare/cloudflare-go"

	"github.com/mehyar500/spavevisionapp/internal/config"
	"github.com/mehyar500/spavevisionapp/internal/metrics"
	"github.com/mehyar500/spavevisionapp/internal/provider"
)

type CloudflareClient struct {
	client    *cloudflare.API
	metrics   *metrics.Metrics
	accountID string
	timeout   time.Duration
	zones     map[string]string // Cache zone name to ID mapping
}

func New(cfg config.Cloudflare, metrics *metrics.Metrics) (*CloudflareClient, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("cloudflare API token required")
	}

	client, err := cloudflare.NewWithAPIToken(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloudflare client: %w", err)
	}

	// Pre-cache the zone ID for the configured zone
	zoneCache := make(map[string]string)
	id, err := client.ZoneIDByName(cfg.Zone)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone ID for %s: %w", cfg.Zone, err)
	}
	zoneCache[cfg.Zone] = id

	return &CloudflareClient{
		client:    client,
		metrics:   metrics,
		accountID: cfg.AccountID,
		timeout:   cfg.RequestTimeout,
		zones:     zoneCache,
	}, nil
}

// callCtx derives the independent per-request timeout every network
// call carries. There is no cancellation propagation beyond it.
func (c *CloudflareClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

func (c *CloudflareClient) zoneID(zone string) (string, error) {
	id, ok := c.zones[zone]
	if !ok {
		return "", fmt.Errorf("zone %s not found in configuration", zone)
	}
	return id, nil
}

func (c *CloudflareClient) ListZones(ctx context.Context) ([]provider.Zone, error) {
	slog.Debug("Listing zones")
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	zones, err := c.client.ListZones(ctx)
	if err != nil {
		c.metrics.IncAPIRequest("zones", "list", false)
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	result := make([]provider.Zone, 0, len(zones))
	for _, z := range zones {
		result = append(result, provider.Zone{ID: z.ID, Name: z.Name})
	}
	c.metrics.IncAPIRequest("zones", "list", true)
	return result, nil
}

func (c *CloudflareClient) ListRecords(ctx context.Context, zone string) ([]provider.Record, error) {
	slog.Debug("Listing DNS records", "zone", zone)
	start := time.Now()

	zoneID, err := c.zoneID(zone)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	// Get all records for the zone with pagination
	var allRecords []cloudflare.DNSRecord
	page := 1
	for {
		rc := cloudflare.ZoneIdentifier(zoneID)
		params := cloudflare.ListDNSRecordsParams{
			ResultInfo: cloudflare.ResultInfo{
				Page:    page,
				PerPage: 100,
			},
		}

		records, resultInfo, err := c.client.ListDNSRecords(ctx, rc, params)
		if err != nil {
			c.metrics.IncAPIRequest("dns", "list", false)
			return nil, fmt.Errorf("failed to list DNS records: %w", err)
		}

		allRecords = append(allRecords, records...)
		if page >= resultInfo.TotalPages {
			break
		}
		page++
	}

	result := make([]provider.Record, 0, len(allRecords))
	for _, r := range allRecords {
		result = append(result, provider.Record{
			ID:      r.ID,
			Name:    r.Name,
			Type:    r.Type,
			Content: r.Content,
			Proxied: r.Proxied != nil && *r.Proxied,
			TTL:     r.TTL,
		})
	}

	c.metrics.IncAPIRequest("dns", "list", true)
	slog.Debug("Retrieved DNS records", "zone", zone, "count", len(result), "duration", time.Since(start))
	return result, nil
}

func (c *CloudflareClient) CreateRecord(ctx context.Context, zone string, spec provider.RecordSpec) (provider.Record, error) {
	slog.Info("Creating DNS record", "zone", zone, "name", spec.Name, "type", spec.Type, "content", spec.Content)

	zoneID, err := c.zoneID(zone)
	if err != nil {
		return provider.Record{}, err
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	params := cloudflare.CreateDNSRecordParams{
		Type:    spec.Type,
		Name:    spec.Name,
		Content: spec.Content,
		TTL:     recordTTL(spec.TTL),
		Proxied: cloudflare.BoolPtr(spec.Proxied),
	}

	created, err := c.client.CreateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), params)
	if err != nil {
		c.metrics.IncAPIRequest("dns", "create", false)
		return provider.Record{}, fmt.Errorf("failed to create DNS record: %w", err)
	}

	c.metrics.IncAPIRequest("dns", "create", true)
	return provider.Record{
		ID:      created.ID,
		Name:    created.Name,
		Type:    created.Type,
		Content: created.Content,
		Proxied: created.Proxied != nil && *created.Proxied,
		TTL:     created.TTL,
	}, nil
}

func (c *CloudflareClient) UpdateRecord(ctx context.Context, zone string, id string, spec provider.RecordSpec) (provider.Record, error) {
	slog.Info("Updating DNS record", "zone", zone, "id", id, "name", spec.Name, "type", spec.Type, "content", spec.Content)

	zoneID, err := c.zoneID(zone)
	if err != nil {
		return provider.Record{}, err
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	params := cloudflare.UpdateDNSRecordParams{
		ID:      id,
		Type:    spec.Type,
		Name:    spec.Name,
		Content: spec.Content,
		TTL:     recordTTL(spec.TTL),
		Proxied: cloudflare.BoolPtr(spec.Proxied),
	}

	updated, err := c.client.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), params)
	if err != nil {
		c.metrics.IncAPIRequest("dns", "update", false)
		return provider.Record{}, fmt.Errorf("failed to update DNS record: %w", err)
	}

	c.metrics.IncAPIRequest("dns", "update", true)
	return provider.Record{
		ID:      updated.ID,
		Name:    updated.Name,
		Type:    updated.Type,
		Content: updated.Content,
		Proxied: updated.Proxied != nil && *updated.Proxied,
		TTL:     updated.TTL,
	}, nil
}

func (c *CloudflareClient) ListPagesProjects(ctx context.Context) ([]provider.PagesProject, error) {
	slog.Debug("Listing pages projects", "account", c.accountID)

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	rc := cloudflare.AccountIdentifier(c.accountID)

	var all []cloudflare.PagesProject
	page := 1
	for {
		params := cloudflare.ListPagesProjectsParams{
			PaginationOptions: cloudflare.PaginationOptions{
				Page:    page,
				PerPage: 100,
			},
		}
		projects, resultInfo, err := c.client.ListPagesProjects(ctx, rc, params)
		if err != nil {
			c.metrics.IncAPIRequest("pages", "list", false)
			return nil, fmt.Errorf("failed to list pages projects: %w", err)
		}
		all = append(all, projects...)
		if page >= resultInfo.TotalPages {
			break
		}
		page++
	}

	result := make([]provider.PagesProject, 0, len(all))
	for _, p := range all {
		result = append(result, provider.PagesProject{
			Name:    p.Name,
			Domains: p.Domains,
		})
	}
	c.metrics.IncAPIRequest("pages", "list", true)
	return result, nil
}

func (c *CloudflareClient) CreatePagesProject(ctx context.Context, name string) (provider.PagesProject, error) {
	slog.Info("Creating pages project", "account", c.accountID, "name", name)

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	params := cloudflare.CreatePagesProjectParams{
		Name:             name,
		ProductionBranch: "main",
	}

	created, err := c.client.CreatePagesProject(ctx, cloudflare.AccountIdentifier(c.accountID), params)
	if err != nil {
		c.metrics.IncAPIRequest("pages", "create", false)
		return provider.PagesProject{}, fmt.Errorf("failed to create pages project: %w", err)
	}

	c.metrics.IncAPIRequest("pages", "create", true)
	return provider.PagesProject{Name: created.Name, Domains: created.Domains}, nil
}

func (c *CloudflareClient) ListWorkers(ctx context.Context) ([]provider.Worker, error) {
	slog.Debug("Listing workers", "account", c.accountID)

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, _, err := c.client.ListWorkers(ctx, cloudflare.AccountIdentifier(c.accountID), cloudflare.ListWorkersParams{})
	if err != nil {
		c.metrics.IncAPIRequest("workers", "list", false)
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	result := make([]provider.Worker, 0, len(resp.WorkerList))
	for _, w := range resp.WorkerList {
		result = append(result, provider.Worker{Name: w.ID})
	}
	c.metrics.IncAPIRequest("workers", "list", true)
	return result, nil
}

func (c *CloudflareClient) ListCertificatePacks(ctx context.Context, zone string) ([]provider.CertificatePack, error) {
	slog.Debug("Listing certificate packs", "zone", zone)

	zoneID, err := c.zoneID(zone)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	packs, err := c.client.ListCertificatePacks(ctx, zoneID)
	if err != nil {
		c.metrics.IncAPIRequest("certificates", "list", false)
		return nil, fmt.Errorf("failed to list certificate packs: %w", err)
	}

	result := make([]provider.CertificatePack, 0, len(packs))
	for _, p := range packs {
		result = append(result, provider.CertificatePack{
			ID:     p.ID,
			Type:   p.Type,
			Status: p.Status,
			Hosts:  p.Hosts,
		})
	}
	c.metrics.IncAPIRequest("certificates", "list", true)
	return result, nil
}

// recordTTL maps an unset TTL to Cloudflare's automatic TTL.
func recordTTL(ttl int) int {
	if ttl == 0 {
		return 1 // 1 means automatic
	}
	return ttl
}
