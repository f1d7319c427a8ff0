package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/mehyar500/spavevisionapp/internal/metrics"
	"github.com/mehyar500/spavevisionapp/internal/provider"
)

type mockClient struct {
	records    []provider.Record
	recordsErr error
	createErr  error
	updateErr  error

	created []provider.RecordSpec
	updated map[string]provider.RecordSpec
}

func (m *mockClient) ListRecords(ctx context.Context, zone string) ([]provider.Record, error) {
	return m.records, m.recordsErr
}

func (m *mockClient) CreateRecord(ctx context.Context, zone string, spec provider.RecordSpec) (provider.Record, error) {
	if m.createErr != nil {
		return provider.Record{}, m.createErr
	}
	m.created = append(m.created, spec)
	return provider.Record{ID: "new", Name: spec.Name, Type: spec.Type, Content: spec.Content, Proxied: spec.Proxied, TTL: spec.TTL}, nil
}

func (m *mockClient) UpdateRecord(ctx context.Context, zone string, id string, spec provider.RecordSpec) (provider.Record, error) {
	if m.updateErr != nil {
		return provider.Record{}, m.updateErr
	}
	if m.updated == nil {
		m.updated = make(map[string]provider.RecordSpec)
	}
	m.updated[id] = spec
	return provider.Record{ID: id, Name: spec.Name, Type: spec.Type, Content: spec.Content, Proxied: spec.Proxied, TTL: spec.TTL}, nil
}

func (m *mockClient) ListZones(ctx context.Context) ([]provider.Zone, error) { return nil, nil }
func (m *mockClient) ListPagesProjects(ctx context.Context) ([]provider.PagesProject, error) {
	return nil, nil
}
func (m *mockClient) CreatePagesProject(ctx context.Context, name string) (provider.PagesProject, error) {
	return provider.PagesProject{}, nil
}
func (m *mockClient) ListWorkers(ctx context.Context) ([]provider.Worker, error) { return nil, nil }
func (m *mockClient) ListCertificatePacks(ctx context.Context, zone string) ([]provider.CertificatePack, error) {
	return nil, nil
}

func newTestEngine(client provider.Client) *Engine {
	e := NewEngine(client, "example.com", metrics.New())
	e.pacing = 0
	return e
}

func TestReconcile(t *testing.T) {
	desired := []provider.RecordSpec{
		{Name: "a.example.com", Type: "CNAME", Content: "target.example.net", Proxied: true, TTL: 1},
	}

	tests := []struct {
		name        string
		desired     []provider.RecordSpec
		observed    []provider.Record
		autoFix     bool
		wantValid   bool
		wantFixed   bool
		wantIssues  []Issue
		wantCreates int
		wantUpdates map[string]string // record id -> new content
	}{
		{
			name:    "missing record without autofix",
			desired: desired,
			autoFix: false,
			wantIssues: []Issue{
				{Kind: KindMissing, Expected: desired[0], Action: ActionRequiresCreation},
			},
		},
		{
			name:    "missing record with autofix",
			desired: desired,
			autoFix: true,
			wantIssues: []Issue{
				{Kind: KindMissing, Expected: desired[0], Action: ActionCreate},
			},
			wantFixed:   true,
			wantCreates: 1,
		},
		{
			name:    "incorrect content with autofix",
			desired: desired,
			observed: []provider.Record{
				{ID: "r1", Name: "a.example.com", Type: "CNAME", Content: "old.example.net", Proxied: false, TTL: 1},
			},
			autoFix: true,
			wantIssues: []Issue{
				{Kind: KindIncorrect, Expected: desired[0], Action: ActionUpdate},
			},
			wantFixed:   true,
			wantUpdates: map[string]string{"r1": "target.example.net"},
		},
		{
			name:    "proxied mismatch flags incorrect",
			desired: desired,
			observed: []provider.Record{
				{ID: "r1", Name: "a.example.com", Type: "CNAME", Content: "target.example.net", Proxied: false, TTL: 1},
			},
			wantIssues: []Issue{
				{Kind: KindIncorrect, Expected: desired[0], Action: ActionRequiresUpdate},
			},
		},
		{
			name: "ttl mismatch flags incorrect only when desired ttl set",
			desired: []provider.RecordSpec{
				{Name: "a.example.com", Type: "CNAME", Content: "target.example.net", Proxied: true, TTL: 300},
			},
			observed: []provider.Record{
				{ID: "r1", Name: "a.example.com", Type: "CNAME", Content: "target.example.net", Proxied: true, TTL: 1},
			},
			wantIssues: []Issue{
				{Kind: KindIncorrect, Action: ActionRequiresUpdate},
			},
		},
		{
			name: "unset desired ttl ignores observed ttl",
			desired: []provider.RecordSpec{
				{Name: "a.example.com", Type: "CNAME", Content: "target.example.net", Proxied: true},
			},
			observed: []provider.Record{
				{ID: "r1", Name: "a.example.com", Type: "CNAME", Content: "target.example.net", Proxied: true, TTL: 3600},
			},
			wantValid: true,
		},
		{
			name:    "in sync is idempotent",
			desired: desired,
			observed: []provider.Record{
				{ID: "r1", Name: "a.example.com", Type: "CNAME", Content: "target.example.net", Proxied: true, TTL: 1},
			},
			autoFix:   true,
			wantValid: true,
		},
		{
			name:    "extra observed records are never flagged",
			desired: desired,
			observed: []provider.Record{
				{ID: "r1", Name: "a.example.com", Type: "CNAME", Content: "target.example.net", Proxied: true, TTL: 1},
				{ID: "r2", Name: "untracked.example.com", Type: "A", Content: "192.0.2.1"},
			},
			autoFix:   true,
			wantValid: true,
		},
		{
			name:    "first observed match wins on duplicates",
			desired: desired,
			observed: []provider.Record{
				{ID: "r1", Name: "a.example.com", Type: "CNAME", Content: "target.example.net", Proxied: true, TTL: 1},
				{ID: "r2", Name: "a.example.com", Type: "CNAME", Content: "stale.example.net", Proxied: false, TTL: 1},
			},
			wantValid: true,
		},
		{
			name: "different type is a miss not a match",
			desired: []provider.RecordSpec{
				{Name: "a.example.com", Type: "A", Content: "192.0.2.1"},
			},
			observed: []provider.Record{
				{ID: "r1", Name: "a.example.com", Type: "CNAME", Content: "target.example.net"},
			},
			wantIssues: []Issue{
				{Kind: KindMissing, Action: ActionRequiresCreation},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{records: tt.observed}
			engine := newTestEngine(client)

			result, err := engine.Reconcile(context.Background(), tt.desired, tt.autoFix)
			if err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}

			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", result.Valid, tt.wantValid)
			}
			if result.Fixed != tt.wantFixed {
				t.Errorf("Fixed = %v, want %v", result.Fixed, tt.wantFixed)
			}
			if len(result.Issues) != len(tt.wantIssues) {
				t.Fatalf("got %d issues, want %d: %+v", len(result.Issues), len(tt.wantIssues), result.Issues)
			}
			for i, want := range tt.wantIssues {
				got := result.Issues[i]
				if got.Kind != want.Kind {
					t.Errorf("issue %d kind = %q, want %q", i, got.Kind, want.Kind)
				}
				if got.Action != want.Action {
					t.Errorf("issue %d action = %q, want %q", i, got.Action, want.Action)
				}
			}

			if len(client.created) != tt.wantCreates {
				t.Errorf("got %d create calls, want %d", len(client.created), tt.wantCreates)
			}
			if len(client.updated) != len(tt.wantUpdates) {
				t.Errorf("got %d update calls, want %d", len(client.updated), len(tt.wantUpdates))
			}
			for id, content := range tt.wantUpdates {
				spec, ok := client.updated[id]
				if !ok {
					t.Errorf("expected update for record %s", id)
					continue
				}
				if spec.Content != content {
					t.Errorf("update for %s content = %q, want %q", id, spec.Content, content)
				}
			}
		})
	}
}

func TestReconcileListError(t *testing.T) {
	client := &mockClient{recordsErr: errors.New("transport down")}
	engine := newTestEngine(client)

	if _, err := engine.Reconcile(context.Background(), nil, false); err == nil {
		t.Fatal("expected transport error to propagate")
	}
}

func TestReconcileContinuesOnWriteFailure(t *testing.T) {
	desired := []provider.RecordSpec{
		{Name: "a.example.com", Type: "CNAME", Content: "one.example.net"},
		{Name: "b.example.com", Type: "CNAME", Content: "two.example.net", Proxied: true},
	}
	observed := []provider.Record{
		{ID: "r1", Name: "b.example.com", Type: "CNAME", Content: "stale.example.net", Proxied: true},
	}
	client := &mockClient{records: observed, createErr: errors.New("rate limited")}
	engine := newTestEngine(client)

	result, err := engine.Reconcile(context.Background(), desired, true)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	// The failed create is skipped; the update for the second record
	// still runs and the issue list keeps the pre-fix classification.
	if len(result.Issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(result.Issues))
	}
	if !result.Fixed {
		t.Error("Fixed should report that a fix was attempted")
	}
	if result.Valid {
		t.Error("Valid must reflect the pre-fix snapshot")
	}
	if _, ok := client.updated["r1"]; !ok {
		t.Error("update after failed create was not issued")
	}
}

func TestIdempotentReconcileIssuesNoWrites(t *testing.T) {
	desired := []provider.RecordSpec{
		{Name: "a.example.com", Type: "A", Content: "192.0.2.1", Proxied: true, TTL: 1},
		{Name: "b.example.com", Type: "CNAME", Content: "target.example.net", TTL: 1},
	}
	observed := []provider.Record{
		{ID: "r1", Name: "a.example.com", Type: "A", Content: "192.0.2.1", Proxied: true, TTL: 1},
		{ID: "r2", Name: "b.example.com", Type: "CNAME", Content: "target.example.net", TTL: 1},
	}
	client := &mockClient{records: observed}
	engine := newTestEngine(client)

	result, err := engine.Reconcile(context.Background(), desired, true)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if !result.Valid || result.Fixed || len(result.Issues) != 0 {
		t.Errorf("want clean result, got %+v", result)
	}
	if len(client.created) != 0 || len(client.updated) != 0 {
		t.Error("no writes may be issued when observed matches desired")
	}
}
