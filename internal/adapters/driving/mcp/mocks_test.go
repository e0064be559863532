package mcp

import (
	"context"

	"github.com/questtrack/refsync/internal/core/domain"
)

// mockResolver is a mock implementation of driving.CacheResolver.
type mockResolver struct {
	views map[domain.DataDomain]*domain.CacheView
	err   error
}

func (m *mockResolver) Resolve(_ context.Context, d domain.DataDomain) (*domain.CacheView, error) {
	if m.err != nil {
		return nil, m.err
	}
	if view, ok := m.views[d]; ok {
		return view, nil
	}
	return &domain.CacheView{Domain: d, Tier: domain.TierSharded}, nil
}

// mockSyncRunner is a mock implementation of driving.SyncRunner.
type mockSyncRunner struct {
	report *domain.SyncReport
	result *domain.DomainResult
	err    error
}

func (m *mockSyncRunner) RunSync(_ context.Context) (*domain.SyncReport, error) {
	return m.report, m.err
}

func (m *mockSyncRunner) RunDomain(_ context.Context, _ domain.DataDomain) (*domain.DomainResult, error) {
	return m.result, m.err
}
