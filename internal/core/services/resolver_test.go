package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questtrack/refsync/internal/adapters/driven/storage/memory"
	"github.com/questtrack/refsync/internal/core/domain"
)

func TestCacheReader_ShardedTierWins(t *testing.T) {
	store := memory.NewShardStore()
	source := newStubSource()
	ctx := context.Background()

	// Both a sharded generation and a live source are available; the sharded
	// tier must be served without touching the source.
	seedGeneration(t, store, domain.DomainTasks, 2)
	source.records[domain.DomainTasks] = makeRecords(t, 99, 50)

	reader := NewCacheReader(store, source)
	view, err := reader.Resolve(ctx, domain.DomainTasks)
	require.NoError(t, err)

	assert.Equal(t, domain.TierSharded, view.Tier)
	assert.Len(t, view.Records, 4) // 2 shards x 2 seeded records
	assert.Equal(t, 0, source.fetchCalls(domain.DomainTasks))
}

func TestCacheReader_ShardOrderPreserved(t *testing.T) {
	store := memory.NewShardStore()
	ctx := context.Background()

	// Write a generation through the real writer so ordering comes from the
	// planner, then verify the reader reproduces the input order.
	records := makeRecords(t, 30, 50)
	writer := NewShardWriter(store, "sync")
	batches := PlanShards(records, ShardBudget{MaxBytes: 100000, MaxItems: 7})
	require.NoError(t, writer.Write(ctx, domain.DomainItems, batches))

	reader := NewCacheReader(store, newStubSource())
	view, err := reader.Resolve(ctx, domain.DomainItems)
	require.NoError(t, err)

	require.Len(t, view.Records, len(records))
	for i := range records {
		assert.True(t, records[i].Equal(view.Records[i]), "record %d out of order", i)
	}
}

func TestCacheReader_FallbackDocumentTier(t *testing.T) {
	store := memory.NewShardStore()
	source := newStubSource()
	ctx := context.Background()

	updatedAt := time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, store.PutFallback(ctx, domain.DomainHideout, &domain.FallbackDocument{
		Data:      makeRecords(t, 6, 50),
		UpdatedAt: updatedAt,
	}))
	source.records[domain.DomainHideout] = makeRecords(t, 99, 50)

	reader := NewCacheReader(store, source)
	view, err := reader.Resolve(ctx, domain.DomainHideout)
	require.NoError(t, err)

	assert.Equal(t, domain.TierFallbackDoc, view.Tier)
	assert.Len(t, view.Records, 6)
	assert.True(t, updatedAt.Equal(view.AsOf))
	assert.Equal(t, 0, source.fetchCalls(domain.DomainHideout))
}

func TestCacheReader_LiveTier(t *testing.T) {
	store := memory.NewShardStore()
	source := newStubSource()
	source.records[domain.DomainItems] = makeRecords(t, 11, 50)

	reader := NewCacheReader(store, source)
	before := time.Now().UTC()
	view, err := reader.Resolve(context.Background(), domain.DomainItems)
	require.NoError(t, err)

	assert.Equal(t, domain.TierLive, view.Tier)
	assert.Len(t, view.Records, 11)
	assert.False(t, view.AsOf.Before(before))
	assert.Equal(t, 1, source.fetchCalls(domain.DomainItems))
}

func TestCacheReader_AllTiersExhausted(t *testing.T) {
	store := memory.NewShardStore()
	source := newStubSource()
	source.errs[domain.DomainTasks] = &domain.FetchError{
		Domain: domain.DomainTasks, Attempts: 3, Err: errors.New("unreachable"),
	}

	reader := NewCacheReader(store, source)
	view, err := reader.Resolve(context.Background(), domain.DomainTasks)

	require.Error(t, err)
	assert.Nil(t, view)
	assert.True(t, domain.IsResolveError(err))
	assert.True(t, domain.IsFetchError(err), "the fetch failure stays unwrappable")
}

func TestCacheReader_MissingShardFallsToNextTier(t *testing.T) {
	store := memory.NewShardStore()
	source := newStubSource()
	ctx := context.Background()

	// A generation whose metadata references a shard that is gone, plus a
	// fallback document: the reader abandons the sharded tier entirely.
	seedGeneration(t, store, domain.DomainTasks, 3)
	require.NoError(t, store.DeleteShard(ctx, domain.DomainTasks, "001"))

	reader := NewCacheReader(store, source)
	source.records[domain.DomainTasks] = makeRecords(t, 7, 50)

	view, err := reader.Resolve(ctx, domain.DomainTasks)
	require.NoError(t, err)
	assert.Equal(t, domain.TierLive, view.Tier)
	assert.Len(t, view.Records, 7)
}

func TestCacheReader_InvalidDomain(t *testing.T) {
	reader := NewCacheReader(memory.NewShardStore(), newStubSource())

	view, err := reader.Resolve(context.Background(), domain.DataDomain("weapons"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, view)
}

func TestCacheReader_AsOfReflectsGeneration(t *testing.T) {
	store := memory.NewShardStore()
	ctx := context.Background()

	committed := time.Now().UTC().Add(-3 * time.Hour).Truncate(time.Second)
	rec := &domain.ShardRecord{Data: makeRecords(t, 2, 50), UpdatedAt: committed}
	require.NoError(t, store.PutShard(ctx, domain.DomainItems, "000", rec))
	require.NoError(t, store.PutMetadata(ctx, domain.DomainItems, &domain.ShardMetadata{
		SchemaVersion: domain.SchemaVersion,
		Sharded:       true,
		ShardCount:    1,
		ShardIDs:      []string{"000"},
		UpdatedAt:     committed,
		Source:        "sync",
	}))

	reader := NewCacheReader(store, newStubSource())
	view, err := reader.Resolve(ctx, domain.DomainItems)
	require.NoError(t, err)

	assert.True(t, committed.Equal(view.AsOf))
	assert.True(t, view.StalerThan(time.Hour))
	assert.False(t, view.StalerThan(6*time.Hour))
}
