package domain

import "time"

// SyncStage identifies where in the per-domain pipeline a sync failed.
type SyncStage string

// Pipeline stages.
const (
	StageFetch SyncStage = "fetch"
	StagePlan  SyncStage = "plan"
	StageWrite SyncStage = "write"
)

// SyncOutcome is the result classification for one domain in one run.
type SyncOutcome string

// Outcomes.
const (
	OutcomeSuccess SyncOutcome = "success"
	OutcomeFailed  SyncOutcome = "failed"
)

// DomainResult records the outcome of syncing one domain.
type DomainResult struct {
	// Domain is the synced data domain.
	Domain DataDomain

	// Outcome classifies the result.
	Outcome SyncOutcome

	// Stage is the failing stage when Outcome is failed.
	Stage SyncStage

	// Error holds the failure message when Outcome is failed.
	Error string

	// Records is the number of records fetched.
	Records int

	// Shards is the number of shards written.
	Shards int

	// Duration is how long the domain's sync took.
	Duration time.Duration
}

// SyncReport is the result of one orchestrator run across all domains.
type SyncReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// EndedAt is when the run finished.
	EndedAt time.Time

	// Results holds the per-domain outcomes.
	Results map[DataDomain]DomainResult
}

// Failed returns the domains that did not sync successfully.
func (r *SyncReport) Failed() []DataDomain {
	var failed []DataDomain
	for _, d := range AllDomains() {
		if res, ok := r.Results[d]; ok && res.Outcome == OutcomeFailed {
			failed = append(failed, d)
		}
	}
	return failed
}

// AllSucceeded reports whether every domain in the run synced successfully.
func (r *SyncReport) AllSucceeded() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if res.Outcome != OutcomeSuccess {
			return false
		}
	}
	return true
}
