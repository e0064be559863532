package services

import (
	"github.com/questtrack/refsync/internal/core/domain"
)

// shardEnvelopeOverhead is the serialised size of a shard document's
// envelope around the record array: the data/updatedAt field names,
// braces, brackets and an RFC 3339 timestamp.
const shardEnvelopeOverhead = 64

// ShardBudget bounds one planned shard. Byte and item limits are
// independent caps; whichever is hit first ends the batch.
type ShardBudget struct {
	// MaxBytes is the serialised size budget per shard document.
	MaxBytes int

	// MaxItems is the record count cap per shard.
	MaxItems int
}

// DefaultShardBudget returns the documented default limits.
func DefaultShardBudget() ShardBudget {
	return ShardBudget{
		MaxBytes: domain.DefaultShardByteBudget,
		MaxItems: domain.DefaultMaxItemsPerShard,
	}
}

// BudgetFromSettings builds a budget from configuration.
func BudgetFromSettings(s domain.Settings) ShardBudget {
	return ShardBudget{
		MaxBytes: s.Shard.ByteBudget,
		MaxItems: s.Shard.MaxItems,
	}
}

// PlanShards partitions records into ordered batches whose serialised size
// stays within the budget, preserving record order exactly across batch
// boundaries. Batch ids are a zero-padded, strictly increasing sequence
// starting at "000", so lexical sort order equals read order.
//
// The function is pure and deterministic: identical input and budget always
// produce identical batch boundaries and ids. Concatenating all batches in
// id order reproduces the input list exactly.
//
// A single record larger than the byte budget still gets a batch of its
// own; records are never split or dropped.
func PlanShards(records []domain.Record, budget ShardBudget) []domain.ShardBatch {
	if budget.MaxBytes <= 0 {
		budget.MaxBytes = domain.DefaultShardByteBudget
	}
	if budget.MaxItems <= 0 {
		budget.MaxItems = domain.DefaultMaxItemsPerShard
	}

	var batches []domain.ShardBatch
	var current []domain.Record
	size := shardEnvelopeOverhead

	flush := func() {
		if len(current) == 0 {
			return
		}
		batches = append(batches, domain.ShardBatch{
			ID:       domain.ShardID(len(batches)),
			Data:     current,
			ByteSize: size,
		})
		current = nil
		size = shardEnvelopeOverhead
	}

	for _, rec := range records {
		// One byte per separating comma.
		recSize := rec.Size() + 1
		if len(current) > 0 && (size+recSize > budget.MaxBytes || len(current) >= budget.MaxItems) {
			flush()
		}
		current = append(current, rec)
		size += recSize
	}
	flush()

	return batches
}

// ConcatBatches joins batch data in id order back into one record list.
// The inverse of PlanShards; used by the read path and round-trip tests.
func ConcatBatches(batches []domain.ShardBatch) []domain.Record {
	total := 0
	for _, b := range batches {
		total += len(b.Data)
	}
	records := make([]domain.Record, 0, total)
	for _, b := range batches {
		records = append(records, b.Data...)
	}
	return records
}
