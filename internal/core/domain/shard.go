package domain

import (
	"fmt"
	"time"
)

// Sharding constants.
const (
	// SchemaVersion is the current shard metadata schema version.
	SchemaVersion = 2

	// DefaultShardByteBudget is the target serialised size per shard (700 KiB).
	// The document store enforces a hard ceiling near 1 MiB; the budget leaves
	// headroom for envelope fields and store-side encoding overhead.
	DefaultShardByteBudget = 700 * 1024

	// MaxShardDocumentBytes is the store's hard per-document ceiling.
	MaxShardDocumentBytes = 1 << 20

	// DefaultMaxItemsPerShard caps the record count per shard independently
	// of the byte budget.
	DefaultMaxItemsPerShard = 500
)

// ShardID formats a shard index as a zero-padded identifier ("000", "001",
// ...) so that lexical sort order equals intended read order.
func ShardID(n int) string {
	return fmt.Sprintf("%03d", n)
}

// ShardMetadata is the per-domain document describing the current shard
// generation. A reader that observes this document must find every
// referenced shard already present; the writer commits it only after all
// shard writes succeed.
type ShardMetadata struct {
	// SchemaVersion is the metadata schema version.
	SchemaVersion int `json:"schemaVersion"`

	// Sharded is true when the domain data lives in shard documents.
	Sharded bool `json:"sharded"`

	// ShardCount is the number of shards in this generation.
	ShardCount int `json:"shardCount"`

	// ShardIDs lists the shard identifiers in read order.
	ShardIDs []string `json:"shardIds"`

	// UpdatedAt is when this generation was committed.
	UpdatedAt time.Time `json:"updatedAt"`

	// Source tags which writer produced this generation.
	Source string `json:"source"`
}

// Validate checks the metadata invariants.
func (m *ShardMetadata) Validate() error {
	if m.ShardCount != len(m.ShardIDs) {
		return fmt.Errorf("%w: shardCount %d does not match %d shard ids",
			ErrInvalidInput, m.ShardCount, len(m.ShardIDs))
	}
	for i, id := range m.ShardIDs {
		if id != ShardID(i) {
			return fmt.Errorf("%w: shard id %q at position %d, want %q",
				ErrInvalidInput, id, i, ShardID(i))
		}
	}
	return nil
}

// ShardRecord is one size-bounded shard document holding a contiguous slice
// of a domain's record list.
type ShardRecord struct {
	// Data is the ordered records in this shard.
	Data []Record `json:"data"`

	// UpdatedAt is when this shard was written.
	UpdatedAt time.Time `json:"updatedAt"`
}

// ShardBatch is the planner's output: one planned shard before it is
// persisted.
type ShardBatch struct {
	// ID is the zero-padded shard identifier.
	ID string

	// Data is the ordered records assigned to this shard.
	Data []Record

	// ByteSize is the estimated serialised size of the shard document.
	ByteSize int
}

// FallbackDocument is the legacy single-document representation of a
// domain's data, served when no sharded generation exists.
type FallbackDocument struct {
	// Data is the full record list.
	Data []Record `json:"data"`

	// UpdatedAt is when the document was written.
	UpdatedAt time.Time `json:"updatedAt"`
}
