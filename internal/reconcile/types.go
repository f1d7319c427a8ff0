package reconcile

import (
	"github.com/mehyar500/spavevisionapp/internal/provider"
)

type IssueKind string

const (
	KindMissing   IssueKind = "missing"
	KindIncorrect IssueKind = "incorrect"
	// KindExtra is part of the taxonomy but never raised: records
	// present remotely and absent from the desired set are left alone,
	// callers may depend on untracked records not being touched.
	KindExtra IssueKind = "extra"
)

type Action string

const (
	ActionCreate           Action = "CREATE"
	ActionUpdate           Action = "UPDATE"
	ActionRequiresCreation Action = "REQUIRES_CREATION"
	ActionRequiresUpdate   Action = "REQUIRES_UPDATE"
)

// Issue is one discrepancy between a desired record and remote state.
type Issue struct {
	Kind     IssueKind           `json:"kind"`
	Observed *provider.Record    `json:"observed,omitempty"`
	Expected provider.RecordSpec `json:"expected"`
	Action   Action              `json:"action"`
}

// Result reports one reconciliation pass. Issues always hold the
// pre-fix classification; Fixed means corrective writes were attempted,
// not that every one of them succeeded.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
	Fixed  bool    `json:"fixed"`
}
