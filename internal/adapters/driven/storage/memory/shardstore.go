package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/questtrack/refsync/internal/core/domain"
	"github.com/questtrack/refsync/internal/core/ports/driven"
)

// Ensure ShardStore implements the interface.
var _ driven.ShardStore = (*ShardStore)(nil)

// ShardStore is an in-memory implementation of driven.ShardStore.
type ShardStore struct {
	mu        sync.RWMutex
	metadata  map[domain.DataDomain]domain.ShardMetadata
	fallbacks map[domain.DataDomain]domain.FallbackDocument
	shards    map[domain.DataDomain]map[string]domain.ShardRecord
}

// NewShardStore creates a new in-memory shard store.
func NewShardStore() *ShardStore {
	return &ShardStore{
		metadata:  make(map[domain.DataDomain]domain.ShardMetadata),
		fallbacks: make(map[domain.DataDomain]domain.FallbackDocument),
		shards:    make(map[domain.DataDomain]map[string]domain.ShardRecord),
	}
}

// GetMetadata returns the domain's shard metadata.
func (s *ShardStore) GetMetadata(_ context.Context, d domain.DataDomain) (*domain.ShardMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.metadata[d]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &meta, nil
}

// PutMetadata creates or overwrites the domain's shard metadata. The legacy
// document at the same path is superseded, matching the document-store
// behaviour of overwriting the domain document.
func (s *ShardStore) PutMetadata(_ context.Context, d domain.DataDomain, meta *domain.ShardMetadata) error {
	if meta == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[d] = *meta
	delete(s.fallbacks, d)
	return nil
}

// GetFallback returns the legacy single-document representation.
func (s *ShardStore) GetFallback(_ context.Context, d domain.DataDomain) (*domain.FallbackDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.fallbacks[d]
	if !ok || len(doc.Data) == 0 {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// PutFallback stores a legacy single-document representation.
func (s *ShardStore) PutFallback(_ context.Context, d domain.DataDomain, doc *domain.FallbackDocument) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallbacks[d] = *doc
	delete(s.metadata, d)
	return nil
}

// GetShard returns one shard document.
func (s *ShardStore) GetShard(_ context.Context, d domain.DataDomain, shardID string) (*domain.ShardRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.shards[d][shardID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// PutShard creates or overwrites one shard document.
func (s *ShardStore) PutShard(_ context.Context, d domain.DataDomain, shardID string, rec *domain.ShardRecord) error {
	if rec == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shards[d] == nil {
		s.shards[d] = make(map[string]domain.ShardRecord)
	}
	s.shards[d][shardID] = *rec
	return nil
}

// DeleteShard removes one shard document. Missing shards are not an error.
func (s *ShardStore) DeleteShard(_ context.Context, d domain.DataDomain, shardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.shards[d], shardID)
	return nil
}

// ListShardIDs returns all existing shard ids for the domain in lexical
// order.
func (s *ShardStore) ListShardIDs(_ context.Context, d domain.DataDomain) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id := range s.shards[d] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
