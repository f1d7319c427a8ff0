package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mehyar500/spavevisionapp/internal/metrics"
	"github.com/mehyar500/spavevisionapp/internal/provider"
)

// writePacing is a flat, unconditional delay between corrective writes
// to stay under the provider's request-rate ceiling. Not a backoff.
const writePacing = 100 * time.Millisecond

type Engine struct {
	client  provider.Client
	zone    string
	metrics *metrics.Metrics
	pacing  time.Duration
}

func NewEngine(client provider.Client, zone string, m *metrics.Metrics) *Engine {
	return &Engine{
		client:  client,
		zone:    zone,
		metrics: m,
		pacing:  writePacing,
	}
}

// Reconcile fetches the observed record set fresh, classifies every
// desired record against it and, when autoFix is set, issues corrective
// writes. Concurrent calls against the same zone may race; callers are
// responsible for serializing reconciliation per zone.
func (e *Engine) Reconcile(ctx context.Context, desired []provider.RecordSpec, autoFix bool) (Result, error) {
	start := time.Now()

	observed, err := e.client.ListRecords(ctx, e.zone)
	if err != nil {
		e.metrics.IncReconcileRun(false)
		return Result{}, fmt.Errorf("list records for zone %s: %w", e.zone, err)
	}

	issues := diff(desired, observed, autoFix)
	slog.Info("Classified DNS records", "zone", e.zone, "desired", len(desired), "observed", len(observed), "issues", len(issues))

	result := Result{
		Valid:  len(issues) == 0,
		Issues: issues,
	}

	if autoFix && len(issues) > 0 {
		e.applyFixes(ctx, issues)
		result.Fixed = true
	}

	e.metrics.SetReconcileIssues(len(issues))
	e.metrics.SetReconcileDuration(time.Since(start))
	e.metrics.IncReconcileRun(true)
	return result, nil
}

// diff classifies each desired record into exactly one of unflagged,
// missing or incorrect. Records present remotely but absent from the
// desired set are never flagged.
func diff(desired []provider.RecordSpec, observed []provider.Record, autoFix bool) []Issue {
	issues := []Issue{}
	for _, want := range desired {
		match, found := findRecord(observed, want.Name, want.Type)
		if !found {
			issues = append(issues, Issue{
				Kind:     KindMissing,
				Expected: want,
				Action:   createAction(autoFix),
			})
			continue
		}

		if match.Content != want.Content || match.Proxied != want.Proxied || (want.TTL != 0 && match.TTL != want.TTL) {
			obs := match
			issues = append(issues, Issue{
				Kind:     KindIncorrect,
				Observed: &obs,
				Expected: want,
				Action:   updateAction(autoFix),
			})
		}
	}
	return issues
}

// findRecord matches on (name, type); first match wins when duplicates
// exist in the observed set.
func findRecord(observed []provider.Record, name, recordType string) (provider.Record, bool) {
	for _, r := range observed {
		if r.Name == name && r.Type == recordType {
			return r, true
		}
	}
	return provider.Record{}, false
}

// applyFixes issues corrective writes strictly sequentially. A failed
// write is logged and skipped; the loop never aborts on one item.
func (e *Engine) applyFixes(ctx context.Context, issues []Issue) {
	for _, issue := range issues {
		switch issue.Kind {
		case KindMissing:
			if _, err := e.client.CreateRecord(ctx, e.zone, issue.Expected); err != nil {
				slog.Error("Failed to create record", "zone", e.zone, "name", issue.Expected.Name, "type", issue.Expected.Type, "error", err)
				e.metrics.IncFixOperation("create", false)
			} else {
				e.metrics.IncFixOperation("create", true)
			}
		case KindIncorrect:
			if _, err := e.client.UpdateRecord(ctx, e.zone, issue.Observed.ID, issue.Expected); err != nil {
				slog.Error("Failed to update record", "zone", e.zone, "name", issue.Expected.Name, "type", issue.Expected.Type, "error", err)
				e.metrics.IncFixOperation("update", false)
			} else {
				e.metrics.IncFixOperation("update", true)
			}
		}
		time.Sleep(e.pacing)
	}
}

func createAction(autoFix bool) Action {
	if autoFix {
		return ActionCreate
	}
	return ActionRequiresCreation
}

func updateAction(autoFix bool) Action {
	if autoFix {
		return ActionUpdate
	}
	return ActionRequiresUpdate
}
