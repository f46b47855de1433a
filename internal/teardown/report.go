package teardown

import (
	"fmt"

	"github.com/schemaitat/lab/internal/provider"
)

// Policy decides what happens to matches of a resource kind.
type Policy string

// Policies
const (
	// PolicyDelete deletes matches.
	PolicyDelete Policy = "delete"
	// PolicyReview only lists matches for manual review.
	PolicyReview Policy = "review"
)

// Status is the per-kind outcome of a scan.
type Status string

// Kind statuses
const (
	StatusCleaned    Status = "cleaned"
	StatusListed     Status = "listed"
	StatusListFailed Status = "list-failed"
	StatusSkipped    Status = "skipped"
)

// Outcome is what happened to one matched resource.
type Outcome string

// Match outcomes
const (
	OutcomeDeleted       Outcome = "deleted"
	OutcomeAlreadyAbsent Outcome = "already-absent"
	OutcomeFailed        Outcome = "failed"
	OutcomeDryRun        Outcome = "would-delete"
	OutcomeReview        Outcome = "requires-manual-review"
)

// Match is a resource attributed to the cluster.
type Match struct {
	Resource provider.Resource `json:"resource"`
	Reasons  []string          `json:"reasons"`
	Outcome  Outcome           `json:"outcome"`
	Cause    string            `json:"cause,omitempty"`
	Err      error             `json:"-"`
}

// KindReport is the scan result for one resource kind.
type KindReport struct {
	Kind         provider.Kind       `json:"kind"`
	Policy       Policy              `json:"policy"`
	Status       Status              `json:"status"`
	Listed       int                 `json:"listed"`
	Matches      []Match             `json:"matches"`
	Unrelated    []provider.Resource `json:"unrelated"`
	Unclassified []provider.Resource `json:"unclassified"`
	Cause        string              `json:"cause,omitempty"`
	Err          error               `json:"-"`
}

// Report is the outcome of one Cleanup run.
type Report struct {
	ClusterID string       `json:"cluster_id"`
	Pattern   string       `json:"pattern"`
	DryRun    bool         `json:"dry_run"`
	Kinds     []KindReport `json:"kinds"`
	Caveats   []string     `json:"caveats"`
}

// Kind returns the report for kind, if it was configured.
func (r *Report) Kind(kind provider.Kind) (KindReport, bool) {
	for _, k := range r.Kinds {
		if k.Kind == kind {
			return k, true
		}
	}
	return KindReport{}, false
}

// Matches returns every match across kinds with the given outcome.
func (r *Report) Matches(outcome Outcome) []Match {
	var out []Match
	for _, k := range r.Kinds {
		for _, m := range k.Matches {
			if m.Outcome == outcome {
				out = append(out, m)
			}
		}
	}
	return out
}

// Err returns a *provider.PartialFailure when any kind failed to list, any
// deletion failed or any resource could not be classified. It is nil only
// when every match was handled.
func (r *Report) Err() error {
	pf := &provider.PartialFailure{Operation: "cleanup"}
	for _, k := range r.Kinds {
		if k.Status == StatusSkipped {
			continue
		}
		pf.Total++
		if k.Status == StatusListFailed {
			pf.Add(fmt.Errorf("list %s: %w", k.Kind, k.Err))
			continue
		}
		for _, m := range k.Matches {
			if m.Outcome == OutcomeReview {
				continue
			}
			pf.Total++
			if m.Outcome == OutcomeFailed {
				pf.Add(m.Err)
			}
		}
		for _, u := range k.Unclassified {
			pf.Total++
			pf.Add(fmt.Errorf("%s %q has neither label nor tags and cannot be attributed", u.Kind, u.ID))
		}
	}
	return pf.ErrOrNil()
}
