package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/questtrack/refsync/internal/core/domain"
	"github.com/questtrack/refsync/internal/core/ports/driven"
	"github.com/questtrack/refsync/internal/core/ports/driving"
	"github.com/questtrack/refsync/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncRunner = (*SyncOrchestrator)(nil)

// SyncOrchestrator coordinates reference-data synchronisation: per domain it
// fetches the catalog, plans shards and writes the new generation. Domains
// are isolated; a failure in one is recorded and the run continues.
//
// Overlapping runs are not locked against each other. The shard writer's
// metadata-last commit makes concurrent writers converge on the most recent
// commit; last write wins is the chosen policy, not an accident.
type SyncOrchestrator struct {
	source  driven.SourceClient
	writer  *ShardWriter
	budget  ShardBudget
	hub     *EventHub
	domains []domain.DataDomain

	// Status tracking
	mu     sync.RWMutex
	active map[domain.DataDomain]*driving.SyncStatus
}

// NewSyncOrchestrator creates a sync orchestrator. The hub is optional; when
// nil, no cache-update events are published.
func NewSyncOrchestrator(
	source driven.SourceClient,
	writer *ShardWriter,
	budget ShardBudget,
	hub *EventHub,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		source:  source,
		writer:  writer,
		budget:  budget,
		hub:     hub,
		domains: domain.AllDomains(),
		active:  make(map[domain.DataDomain]*driving.SyncStatus),
	}
}

// RunSync synchronises every domain independently. Domains run concurrently;
// the steps within one domain's write sequence never interleave.
func (o *SyncOrchestrator) RunSync(ctx context.Context) (*domain.SyncReport, error) {
	report := &domain.SyncReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Results:   make(map[domain.DataDomain]domain.DomainResult, len(o.domains)),
	}

	logger.Info("Starting sync run %s", report.RunID)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, d := range o.domains {
		g.Go(func() error {
			result := o.syncDomain(gctx, d)
			mu.Lock()
			report.Results[d] = result
			mu.Unlock()
			// Domain failures are recorded, never propagated: one failed
			// domain must not cancel the others.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.EndedAt = time.Now().UTC()
	if failed := report.Failed(); len(failed) > 0 {
		logger.Warn("Sync run %s finished with failed domains: %v", report.RunID, failed)
	} else {
		logger.Info("Sync run %s finished: all domains updated", report.RunID)
	}
	return report, nil
}

// RunDomain synchronises a single domain.
func (o *SyncOrchestrator) RunDomain(ctx context.Context, d domain.DataDomain) (*domain.DomainResult, error) {
	if !d.Valid() {
		return nil, domain.ErrInvalidInput
	}
	result := o.syncDomain(ctx, d)
	return &result, nil
}

// Status returns the in-flight sync status for a domain.
func (o *SyncOrchestrator) Status(d domain.DataDomain) driving.SyncStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if status, ok := o.active[d]; ok {
		return *status
	}
	return driving.SyncStatus{Domain: d}
}

// syncDomain runs fetch, plan and write for one domain and classifies the
// outcome.
func (o *SyncOrchestrator) syncDomain(ctx context.Context, d domain.DataDomain) domain.DomainResult {
	start := time.Now()
	result := domain.DomainResult{Domain: d, Outcome: domain.OutcomeSuccess}

	status := &driving.SyncStatus{Domain: d, Running: true, Stage: domain.StageFetch}
	o.setStatus(d, status)
	defer o.clearStatus(d)

	fail := func(stage domain.SyncStage, err error) domain.DomainResult {
		logger.Warn("Sync %s failed at %s: %v", d, stage, err)
		result.Outcome = domain.OutcomeFailed
		result.Stage = stage
		result.Error = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	// Fetch. The source client owns retries; an error here is terminal for
	// this cycle.
	records, err := o.source.Fetch(ctx, d)
	if err != nil {
		return fail(domain.StageFetch, err)
	}
	result.Records = len(records)

	// A structurally valid but empty catalog response would wipe a good
	// generation, so it never reaches the writer.
	if len(records) == 0 {
		return fail(domain.StageFetch, domain.ErrEmptyDataset)
	}

	status.Stage = domain.StagePlan
	batches := PlanShards(records, o.budget)
	result.Shards = len(batches)

	status.Stage = domain.StageWrite
	if err := o.writer.Write(ctx, d, batches); err != nil {
		return fail(domain.StageWrite, err)
	}

	result.Duration = time.Since(start)
	logger.Info("Synced %s: %d records in %d shards (%s)",
		d, result.Records, result.Shards, result.Duration.Round(time.Millisecond))

	if o.hub != nil {
		o.hub.Publish(domain.CacheUpdate{
			Domain:      d,
			ShardCount:  result.Shards,
			RecordCount: result.Records,
			UpdatedAt:   time.Now().UTC(),
		})
	}
	return result
}

// setStatus records the in-flight status for a domain.
func (o *SyncOrchestrator) setStatus(d domain.DataDomain, status *driving.SyncStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active[d] = status
}

// clearStatus removes the in-flight status for a domain.
func (o *SyncOrchestrator) clearStatus(d domain.DataDomain) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, d)
}
