package driven

import (
	"context"

	"github.com/questtrack/refsync/internal/core/domain"
)

// ShardStore persists shard and metadata documents for the reference-data
// cache. The conceptual layout follows the document store:
//
//	referenceData/{domain}                  metadata (sharded) or legacy document
//	referenceData/{domain}/shards/{shardId} one shard
//
// Writers own a domain's documents exclusively during a write sequence;
// readers never mutate them and must tolerate eventual consistency.
type ShardStore interface {
	// GetMetadata returns the domain's shard metadata.
	// Returns domain.ErrNotFound when the domain document is missing or is
	// a legacy non-sharded document.
	GetMetadata(ctx context.Context, d domain.DataDomain) (*domain.ShardMetadata, error)

	// PutMetadata creates or overwrites the domain's shard metadata.
	// This is the generation commit point: it must only be called after
	// every referenced shard has been written.
	PutMetadata(ctx context.Context, d domain.DataDomain, meta *domain.ShardMetadata) error

	// GetFallback returns the legacy single-document representation.
	// Returns domain.ErrNotFound when no such document exists or its data
	// field is empty.
	GetFallback(ctx context.Context, d domain.DataDomain) (*domain.FallbackDocument, error)

	// GetShard returns one shard document.
	// Returns domain.ErrNotFound when the shard does not exist.
	GetShard(ctx context.Context, d domain.DataDomain, shardID string) (*domain.ShardRecord, error)

	// PutShard creates or overwrites one shard document atomically.
	PutShard(ctx context.Context, d domain.DataDomain, shardID string, rec *domain.ShardRecord) error

	// DeleteShard removes one shard document. Deleting a missing shard is
	// not an error.
	DeleteShard(ctx context.Context, d domain.DataDomain, shardID string) error

	// ListShardIDs returns all existing shard ids for the domain in lexical
	// order, whether or not the current metadata references them.
	ListShardIDs(ctx context.Context, d domain.DataDomain) ([]string, error)
}
