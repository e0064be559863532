package services

import (
	"context"
	"fmt"
	"time"

	"github.com/questtrack/refsync/internal/core/domain"
	"github.com/questtrack/refsync/internal/core/ports/driven"
	"github.com/questtrack/refsync/internal/logger"
)

// ShardWriter persists shard generations. The write sequence upholds the
// atomicity invariant: shards first, metadata only after every shard write
// succeeded, orphan deletion only after the metadata commit. A crash
// between metadata and orphan deletion leaves extra, unreferenced shard
// documents rather than missing ones.
type ShardWriter struct {
	store  driven.ShardStore
	source string
}

// NewShardWriter creates a shard writer. The source tag is recorded in each
// committed generation's metadata.
func NewShardWriter(store driven.ShardStore, source string) *ShardWriter {
	return &ShardWriter{
		store:  store,
		source: source,
	}
}

// Write persists one generation for a domain.
//
// Overlapping writers for the same domain are not locked against each
// other; the last metadata commit wins and readers never observe a torn
// state because metadata is committed last.
func (w *ShardWriter) Write(ctx context.Context, d domain.DataDomain, batches []domain.ShardBatch) error {
	// Snapshot existing shard ids before writing so orphans from the
	// previous generation can be identified afterwards.
	existing, err := w.store.ListShardIDs(ctx, d)
	if err != nil {
		return &domain.WriteError{Domain: d, Stage: domain.WriteStageShards,
			Err: fmt.Errorf("list existing shards: %w", err)}
	}

	now := time.Now().UTC()
	newIDs := make([]string, 0, len(batches))

	// 1. Write every shard. Each individual put is atomic in the store;
	//    a failure here aborts before metadata is touched, leaving the
	//    previous generation fully referenced and intact.
	for _, batch := range batches {
		rec := &domain.ShardRecord{
			Data:      batch.Data,
			UpdatedAt: now,
		}
		if err := w.store.PutShard(ctx, d, batch.ID, rec); err != nil {
			return &domain.WriteError{Domain: d, Stage: domain.WriteStageShards,
				Err: fmt.Errorf("put shard %s: %w", batch.ID, err)}
		}
		newIDs = append(newIDs, batch.ID)
	}

	// 2. Commit the generation. A reader that observes this metadata finds
	//    all referenced shards already present.
	meta := &domain.ShardMetadata{
		SchemaVersion: domain.SchemaVersion,
		Sharded:       true,
		ShardCount:    len(newIDs),
		ShardIDs:      newIDs,
		UpdatedAt:     now,
		Source:        w.source,
	}
	if err := meta.Validate(); err != nil {
		return &domain.WriteError{Domain: d, Stage: domain.WriteStageMetadata, Err: err}
	}
	if err := w.store.PutMetadata(ctx, d, meta); err != nil {
		return &domain.WriteError{Domain: d, Stage: domain.WriteStageMetadata,
			Err: fmt.Errorf("put metadata: %w", err)}
	}

	// 3. Delete orphans from the previous generation.
	referenced := make(map[string]bool, len(newIDs))
	for _, id := range newIDs {
		referenced[id] = true
	}
	for _, id := range existing {
		if referenced[id] {
			continue
		}
		if err := w.store.DeleteShard(ctx, d, id); err != nil {
			logger.Warn("Failed to delete orphan shard %s/%s: %v", d, id, err)
			return &domain.WriteError{Domain: d, Stage: domain.WriteStageOrphans,
				Err: fmt.Errorf("delete orphan shard %s: %w", id, err)}
		}
		logger.Debug("Deleted orphan shard %s/%s", d, id)
	}

	logger.Info("Committed %s generation: %d shards at %s", d, len(newIDs), now.Format(time.RFC3339))
	return nil
}
