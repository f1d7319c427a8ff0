package provider

import (
	"context"
)

// Client is the read/write gateway to the remote provider. The core
// never retries a failed call; transport errors surface as-is.
type Client interface {
	ListZones(ctx context.Context) ([]Zone, error)
	ListRecords(ctx context.Context, zone string) ([]Record, error)
	CreateRecord(ctx context.Context, zone string, spec RecordSpec) (Record, error)
	UpdateRecord(ctx context.Context, zone string, id string, spec RecordSpec) (Record, error)
	ListPagesProjects(ctx context.Context) ([]PagesProject, error)
	CreatePagesProject(ctx context.Context, name string) (PagesProject, error)
	ListWorkers(ctx context.Context) ([]Worker, error)
	ListCertificatePacks(ctx context.Context, zone string) ([]CertificatePack, error)
}

// RecordSpec is the declared-intent value for one DNS entry.
type RecordSpec struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Proxied bool   `json:"proxied"`
	TTL     int    `json:"ttl,omitempty"`
}

// Record is the live remote state for a DNS entry, fetched per call.
type Record struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Proxied bool   `json:"proxied"`
	TTL     int    `json:"ttl,omitempty"`
}

type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PagesProject struct {
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
}

type Worker struct {
	Name string `json:"name"`
}

type CertificatePack struct {
	ID     string   `json:"id"`
	Type   string   `json:"type"`
	Status string   `json:"status"`
	Hosts  []string `json:"hosts"`
}
