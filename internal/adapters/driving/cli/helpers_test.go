package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/questtrack/refsync/internal/core/domain"
)

// setupCLITest marks the services initialised so commands run against
// whatever mocks the test installs, and restores the globals afterwards.
func setupCLITest(t *testing.T) {
	t.Helper()

	oldInitialised := initialised
	oldRunner := syncRunner
	oldResolver := cacheResolver
	oldShardStore := shardStore
	oldSchedulerStore := schedulerStore
	oldScheduler := syncScheduler

	initialised = true

	t.Cleanup(func() {
		initialised = oldInitialised
		syncRunner = oldRunner
		cacheResolver = oldResolver
		shardStore = oldShardStore
		schedulerStore = oldSchedulerStore
		syncScheduler = oldScheduler
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
}

// executeCommand runs the root command with the given args and captures
// its output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// stubSyncRunner implements driving.SyncRunner for command tests.
type stubSyncRunner struct {
	report *domain.SyncReport
	result *domain.DomainResult
	err    error
}

func (s *stubSyncRunner) RunSync(_ context.Context) (*domain.SyncReport, error) {
	return s.report, s.err
}

func (s *stubSyncRunner) RunDomain(_ context.Context, _ domain.DataDomain) (*domain.DomainResult, error) {
	return s.result, s.err
}

// stubResolver implements driving.CacheResolver for command tests.
type stubResolver struct {
	view *domain.CacheView
	err  error
}

func (s *stubResolver) Resolve(_ context.Context, _ domain.DataDomain) (*domain.CacheView, error) {
	return s.view, s.err
}
