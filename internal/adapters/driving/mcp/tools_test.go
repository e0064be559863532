package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questtrack/refsync/internal/core/domain"
)

func mustRecord(t *testing.T, raw string) domain.Record {
	t.Helper()
	rec, err := domain.NewRecord([]byte(raw))
	require.NoError(t, err)
	return rec
}

func taskRecords(t *testing.T, n int) []domain.Record {
	t.Helper()
	records := make([]domain.Record, n)
	for i := range records {
		records[i] = mustRecord(t, fmt.Sprintf(`{"id":"task-%d","name":"Task %d"}`, i, i))
	}
	return records
}

func TestServer_handleLookup(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	t.Run("returns domain records", func(t *testing.T) {
		resolver := &mockResolver{
			views: map[domain.DataDomain]*domain.CacheView{
				domain.DomainTasks: {
					Domain:  domain.DomainTasks,
					Records: taskRecords(t, 3),
					Tier:    domain.TierSharded,
					AsOf:    asOf,
				},
			},
		}

		server, err := NewServer(&Ports{Resolver: resolver})
		require.NoError(t, err)

		input := LookupInput{Domain: "tasks"}
		_, output, err := server.handleLookup(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "tasks", output.Domain)
		assert.Equal(t, "sharded", output.Tier)
		assert.Equal(t, "2026-08-25T12:00:00Z", output.AsOf)
		assert.Equal(t, 3, output.Count)
		assert.Len(t, output.Records, 3)
		assert.JSONEq(t, `{"id":"task-0","name":"Task 0"}`, string(output.Records[0]))
	})

	t.Run("filters by record id", func(t *testing.T) {
		resolver := &mockResolver{
			views: map[domain.DataDomain]*domain.CacheView{
				domain.DomainTasks: {
					Domain:  domain.DomainTasks,
					Records: taskRecords(t, 5),
					Tier:    domain.TierFallbackDoc,
				},
			},
		}

		server, err := NewServer(&Ports{Resolver: resolver})
		require.NoError(t, err)

		input := LookupInput{Domain: "tasks", ID: "task-2"}
		_, output, err := server.handleLookup(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.JSONEq(t, `{"id":"task-2","name":"Task 2"}`, string(output.Records[0]))
	})

	t.Run("unknown record id returns empty set", func(t *testing.T) {
		resolver := &mockResolver{
			views: map[domain.DataDomain]*domain.CacheView{
				domain.DomainTasks: {
					Domain:  domain.DomainTasks,
					Records: taskRecords(t, 2),
					Tier:    domain.TierSharded,
				},
			},
		}

		server, err := NewServer(&Ports{Resolver: resolver})
		require.NoError(t, err)

		input := LookupInput{Domain: "tasks", ID: "nope"}
		_, output, err := server.handleLookup(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Empty(t, output.Records)
	})

	t.Run("applies limit", func(t *testing.T) {
		resolver := &mockResolver{
			views: map[domain.DataDomain]*domain.CacheView{
				domain.DomainItems: {
					Domain:  domain.DomainItems,
					Records: taskRecords(t, 10),
					Tier:    domain.TierSharded,
				},
			},
		}

		server, err := NewServer(&Ports{Resolver: resolver})
		require.NoError(t, err)

		input := LookupInput{Domain: "items", Limit: 4}
		_, output, err := server.handleLookup(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 4, output.Count)
		assert.Len(t, output.Records, 4)
	})

	t.Run("invalid domain returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Resolver: &mockResolver{}})
		require.NoError(t, err)

		input := LookupInput{Domain: "weapons"}
		_, _, err = server.handleLookup(ctx, nil, input)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on resolve failure", func(t *testing.T) {
		resolver := &mockResolver{
			err: &domain.ResolveError{Domain: domain.DomainTasks, Err: errors.New("catalog down")},
		}

		server, err := NewServer(&Ports{Resolver: resolver})
		require.NoError(t, err)

		input := LookupInput{Domain: "tasks"}
		_, _, err = server.handleLookup(ctx, nil, input)

		require.Error(t, err)
		assert.True(t, domain.IsResolveError(err))
	})
}

func TestServer_handleSync(t *testing.T) {
	ctx := context.Background()

	t.Run("full run reports per-domain outcomes", func(t *testing.T) {
		runner := &mockSyncRunner{
			report: &domain.SyncReport{
				RunID: "run-1",
				Results: map[domain.DataDomain]domain.DomainResult{
					domain.DomainTasks:   {Domain: domain.DomainTasks, Outcome: domain.OutcomeSuccess, Records: 120, Shards: 2},
					domain.DomainHideout: {Domain: domain.DomainHideout, Outcome: domain.OutcomeFailed, Stage: domain.StageFetch, Error: "503"},
					domain.DomainItems:   {Domain: domain.DomainItems, Outcome: domain.OutcomeSuccess, Records: 4000, Shards: 7},
				},
			},
		}

		server, err := NewServer(&Ports{Resolver: &mockResolver{}, Sync: runner})
		require.NoError(t, err)

		_, output, err := server.handleSync(ctx, nil, SyncInput{})

		require.NoError(t, err)
		assert.Equal(t, "run-1", output.RunID)
		require.Len(t, output.Results, 3)
		assert.Equal(t, "tasks", output.Results[0].Domain)
		assert.Equal(t, "success", output.Results[0].Outcome)
		assert.Equal(t, "hideout", output.Results[1].Domain)
		assert.Equal(t, "failed", output.Results[1].Outcome)
		assert.Equal(t, "fetch", output.Results[1].Stage)
		assert.Equal(t, "503", output.Results[1].Error)
		assert.Equal(t, 7, output.Results[2].Shards)
	})

	t.Run("single domain run", func(t *testing.T) {
		runner := &mockSyncRunner{
			result: &domain.DomainResult{
				Domain:  domain.DomainItems,
				Outcome: domain.OutcomeSuccess,
				Records: 4000,
				Shards:  7,
			},
		}

		server, err := NewServer(&Ports{Resolver: &mockResolver{}, Sync: runner})
		require.NoError(t, err)

		_, output, err := server.handleSync(ctx, nil, SyncInput{Domain: "items"})

		require.NoError(t, err)
		assert.Empty(t, output.RunID)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "items", output.Results[0].Domain)
		assert.Equal(t, 4000, output.Results[0].Records)
	})

	t.Run("invalid domain returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Resolver: &mockResolver{}, Sync: &mockSyncRunner{}})
		require.NoError(t, err)

		_, _, err = server.handleSync(ctx, nil, SyncInput{Domain: "weapons"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("returns error on run failure", func(t *testing.T) {
		runner := &mockSyncRunner{err: domain.ErrSyncInProgress}

		server, err := NewServer(&Ports{Resolver: &mockResolver{}, Sync: runner})
		require.NoError(t, err)

		_, _, err = server.handleSync(ctx, nil, SyncInput{})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSyncInProgress)
	})
}
