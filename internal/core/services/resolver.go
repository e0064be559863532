package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questtrack/refsync/internal/core/domain"
	"github.com/questtrack/refsync/internal/core/ports/driven"
	"github.com/questtrack/refsync/internal/core/ports/driving"
	"github.com/questtrack/refsync/internal/logger"
)

// Ensure CacheReader implements the interface.
var _ driving.CacheResolver = (*CacheReader)(nil)

// CacheReader is the tiered read path over the reference-data cache. Tier
// order is fixed: sharded generation, legacy fallback document, live catalog
// fetch. The reader never writes to the store and tolerates the write path
// being stale, partially absent or mid-rotation.
type CacheReader struct {
	store  driven.ShardStore
	source driven.SourceClient
}

// NewCacheReader creates a cache reader. Construct one instance per process
// and inject it; the reader holds no global state, so tests can instantiate
// isolated readers freely.
func NewCacheReader(store driven.ShardStore, source driven.SourceClient) *CacheReader {
	return &CacheReader{
		store:  store,
		source: source,
	}
}

// Resolve returns the first non-empty tier's data for the domain.
func (r *CacheReader) Resolve(ctx context.Context, d domain.DataDomain) (*domain.CacheView, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidInput, d)
	}

	// Tier 1: sharded generation.
	if view, ok := r.resolveSharded(ctx, d); ok {
		return view, nil
	}

	// Tier 2: legacy fallback document.
	if view, ok := r.resolveFallback(ctx, d); ok {
		return view, nil
	}

	// Tier 3: live fetch. The only tier that can itself fail; the failure
	// surfaces because there is nothing left to fall back to.
	logger.Debug("Cache miss for %s, falling back to live fetch", d)
	records, err := r.source.Fetch(ctx, d)
	if err != nil {
		return nil, &domain.ResolveError{Domain: d, Err: err}
	}
	return &domain.CacheView{
		Domain:  d,
		Records: records,
		Tier:    domain.TierLive,
		AsOf:    time.Now().UTC(),
	}, nil
}

// resolveSharded reads the current shard generation. Any inconsistency, a
// missing shard from a writer mid-rotation included, yields no data rather
// than an error so the next tier can serve.
func (r *CacheReader) resolveSharded(ctx context.Context, d domain.DataDomain) (*domain.CacheView, bool) {
	meta, err := r.store.GetMetadata(ctx, d)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Reading %s metadata: %v", d, err)
		}
		return nil, false
	}
	if !meta.Sharded || meta.ShardCount == 0 {
		return nil, false
	}

	var records []domain.Record
	for _, shardID := range meta.ShardIDs {
		shard, err := r.store.GetShard(ctx, d, shardID)
		if err != nil {
			logger.Warn("Shard %s/%s unreadable, abandoning sharded tier: %v", d, shardID, err)
			return nil, false
		}
		records = append(records, shard.Data...)
	}
	if len(records) == 0 {
		return nil, false
	}

	return &domain.CacheView{
		Domain:  d,
		Records: records,
		Tier:    domain.TierSharded,
		AsOf:    meta.UpdatedAt,
	}, true
}

// resolveFallback reads the legacy single-document representation.
func (r *CacheReader) resolveFallback(ctx context.Context, d domain.DataDomain) (*domain.CacheView, bool) {
	doc, err := r.store.GetFallback(ctx, d)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Reading %s fallback document: %v", d, err)
		}
		return nil, false
	}
	if len(doc.Data) == 0 {
		return nil, false
	}

	return &domain.CacheView{
		Domain:  d,
		Records: doc.Data,
		Tier:    domain.TierFallbackDoc,
		AsOf:    doc.UpdatedAt,
	}, true
}
