package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/questtrack/refsync/internal/core/domain"
	"github.com/questtrack/refsync/internal/core/ports/driven"
	"github.com/questtrack/refsync/internal/core/ports/driving"
	"github.com/questtrack/refsync/internal/logger"
)

// historyRetention is how many task results are kept per task.
const historyRetention = 100

// dueCheckInterval is how often the scheduler looks for due tasks.
const dueCheckInterval = 1 * time.Minute

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler runs the periodic reference-data sync. It is single-threaded
// and non-overlapping by convention: a new run is only started once the
// previous one's task slot completes. True mutual exclusion across
// processes is intentionally not provided; the shard writer's atomic swap
// keeps overlapping runs safe.
type Scheduler struct {
	settings domain.Settings
	store    driven.SchedulerStore
	runner   driving.SyncRunner

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler.
func NewScheduler(
	settings domain.Settings,
	store driven.SchedulerStore,
	runner driving.SyncRunner,
) *Scheduler {
	return &Scheduler{
		settings: settings,
		store:    store,
		runner:   runner,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if err := s.ensureSyncTask(ctx); err != nil {
		logger.Warn("Scheduler failed to initialise sync task: %v", err)
	}

	return s.run(ctx)
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	// Wait for a running sync to complete
	s.wg.Wait()

	return nil
}

// ensureSyncTask creates or updates the reference-sync task in the store.
func (s *Scheduler) ensureSyncTask(ctx context.Context) error {
	interval := s.settings.SyncInterval()

	task, err := s.store.GetTask(ctx, domain.TaskIDReferenceSync)
	if err != nil {
		return err
	}

	if task == nil {
		task = &domain.ScheduledTask{
			ID:       domain.TaskIDReferenceSync,
			Name:     "Reference Data Sync",
			Interval: interval,
			Enabled:  s.settings.Scheduler.Enabled,
			// Run immediately on first start so a fresh install has data.
			NextRun: time.Now(),
		}
	} else {
		if task.Interval != interval {
			task.Interval = interval
			task.NextRun = time.Now().Add(interval)
		}
		task.Enabled = s.settings.Scheduler.Enabled
	}

	return s.store.SaveTask(ctx, task)
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) error {
	// Check for due tasks immediately on startup
	s.checkAndRunDueTasks(ctx)

	ticker := time.NewTicker(dueCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.checkAndRunDueTasks(ctx)
		}
	}
}

// checkAndRunDueTasks finds and executes tasks that are due.
func (s *Scheduler) checkAndRunDueTasks(ctx context.Context) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		logger.Warn("Scheduler failed to list tasks: %v", err)
		return
	}

	now := time.Now()
	for i := range tasks {
		task := &tasks[i]
		if !task.Enabled {
			continue
		}
		if task.NextRun.IsZero() || !task.NextRun.After(now) {
			s.runTask(ctx, task)
		}
	}
}

// runTask executes a single task and records its result.
func (s *Scheduler) runTask(ctx context.Context, task *domain.ScheduledTask) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		result := &domain.TaskResult{
			TaskID:    task.ID,
			StartedAt: time.Now(),
		}

		var err error
		switch task.ID {
		case domain.TaskIDReferenceSync:
			result.ItemsProcessed, err = s.runReferenceSync(ctx)
		default:
			logger.Warn("Scheduler: unknown task ID %s", task.ID)
			return
		}

		result.EndedAt = time.Now()
		if err != nil {
			result.Success = false
			result.Error = err.Error()
			task.LastError = err.Error()
		} else {
			result.Success = true
			task.LastError = ""
			task.LastSuccess = result.EndedAt
		}

		task.LastRun = result.StartedAt
		task.NextRun = result.EndedAt.Add(task.Interval)

		if saveErr := s.store.SaveTask(ctx, task); saveErr != nil {
			logger.Warn("Scheduler failed to save task %s: %v", task.ID, saveErr)
		}

		if recordErr := s.store.RecordResult(ctx, result); recordErr != nil {
			logger.Warn("Scheduler failed to record result for %s: %v", task.ID, recordErr)
		}

		if pruneErr := s.store.PruneHistory(ctx, historyRetention); pruneErr != nil {
			logger.Warn("Scheduler failed to prune history: %v", pruneErr)
		}
	}()
}

// runReferenceSync executes one sync run and summarises it for the task
// history. Per-domain failures are already isolated inside the run; the
// task is recorded as failed only when at least one domain failed.
func (s *Scheduler) runReferenceSync(ctx context.Context) (int, error) {
	report, err := s.runner.RunSync(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, res := range report.Results {
		if res.Outcome == domain.OutcomeSuccess {
			total += res.Records
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		return total, fmt.Errorf("domains failed to sync: %v", failed)
	}
	return total, nil
}
