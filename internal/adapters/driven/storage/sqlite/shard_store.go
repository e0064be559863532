package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/questtrack/refsync/internal/core/domain"
	"github.com/questtrack/refsync/internal/core/ports/driven"
)

// shardStore implements driven.ShardStore.
type shardStore struct {
	store *Store
}

var _ driven.ShardStore = (*shardStore)(nil)

// domainDocument is the persisted shape of a domain's top-level document.
// Sharded metadata and the legacy single-document representation share the
// same path; the sharded flag distinguishes them.
type domainDocument struct {
	SchemaVersion int             `json:"schemaVersion,omitempty"`
	Sharded       bool            `json:"sharded,omitempty"`
	ShardCount    int             `json:"shardCount,omitempty"`
	ShardIDs      []string        `json:"shardIds,omitempty"`
	Source        string          `json:"source,omitempty"`
	Data          []domain.Record `json:"data,omitempty"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// GetMetadata returns the domain's shard metadata.
func (s *shardStore) GetMetadata(ctx context.Context, d domain.DataDomain) (*domain.ShardMetadata, error) {
	doc, err := s.getDocument(ctx, d)
	if err != nil {
		return nil, err
	}
	if !doc.Sharded {
		return nil, domain.ErrNotFound
	}

	return &domain.ShardMetadata{
		SchemaVersion: doc.SchemaVersion,
		Sharded:       true,
		ShardCount:    doc.ShardCount,
		ShardIDs:      doc.ShardIDs,
		UpdatedAt:     doc.UpdatedAt,
		Source:        doc.Source,
	}, nil
}

// PutMetadata creates or overwrites the domain's shard metadata.
func (s *shardStore) PutMetadata(ctx context.Context, d domain.DataDomain, meta *domain.ShardMetadata) error {
	if meta == nil {
		return domain.ErrInvalidInput
	}

	body, err := json.Marshal(domainDocument{
		SchemaVersion: meta.SchemaVersion,
		Sharded:       meta.Sharded,
		ShardCount:    meta.ShardCount,
		ShardIDs:      meta.ShardIDs,
		Source:        meta.Source,
		UpdatedAt:     meta.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO reference_docs (domain, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, string(d), string(body), meta.UpdatedAt.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("saving metadata: %w", err)
	}
	return nil
}

// GetFallback returns the legacy single-document representation.
func (s *shardStore) GetFallback(ctx context.Context, d domain.DataDomain) (*domain.FallbackDocument, error) {
	doc, err := s.getDocument(ctx, d)
	if err != nil {
		return nil, err
	}
	if doc.Sharded || len(doc.Data) == 0 {
		return nil, domain.ErrNotFound
	}

	return &domain.FallbackDocument{
		Data:      doc.Data,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// PutFallback writes the legacy single-document representation. Kept for
// migration tooling and tests; the sync path always writes sharded
// generations.
func (s *shardStore) PutFallback(ctx context.Context, d domain.DataDomain, doc *domain.FallbackDocument) error {
	if doc == nil {
		return domain.ErrInvalidInput
	}

	body, err := json.Marshal(domainDocument{
		Data:      doc.Data,
		UpdatedAt: doc.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshalling fallback document: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO reference_docs (domain, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, string(d), string(body), doc.UpdatedAt.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("saving fallback document: %w", err)
	}
	return nil
}

// GetShard returns one shard document.
func (s *shardStore) GetShard(ctx context.Context, d domain.DataDomain, shardID string) (*domain.ShardRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT body FROM reference_shards WHERE domain = ? AND shard_id = ?
	`, string(d), shardID)

	var body string
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning shard: %w", err)
	}

	var rec domain.ShardRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("unmarshaling shard: %w", err)
	}
	return &rec, nil
}

// PutShard creates or overwrites one shard document. The write is a single
// statement, so it is atomic; the per-document size ceiling is enforced
// here as a final guard against planner misconfiguration.
func (s *shardStore) PutShard(ctx context.Context, d domain.DataDomain, shardID string, rec *domain.ShardRecord) error {
	if rec == nil {
		return domain.ErrInvalidInput
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling shard: %w", err)
	}
	if len(body) > domain.MaxShardDocumentBytes {
		return fmt.Errorf("%w: shard %s is %d bytes, limit %d",
			domain.ErrInvalidInput, shardID, len(body), domain.MaxShardDocumentBytes)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO reference_shards (domain, shard_id, body, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(domain, shard_id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, string(d), shardID, string(body), rec.UpdatedAt.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("saving shard: %w", err)
	}
	return nil
}

// DeleteShard removes one shard document. Missing shards are not an error.
func (s *shardStore) DeleteShard(ctx context.Context, d domain.DataDomain, shardID string) error {
	_, err := s.store.db.ExecContext(ctx,
		"DELETE FROM reference_shards WHERE domain = ? AND shard_id = ?", string(d), shardID)
	if err != nil {
		return fmt.Errorf("deleting shard: %w", err)
	}
	return nil
}

// ListShardIDs returns all existing shard ids for the domain in lexical
// order.
func (s *shardStore) ListShardIDs(ctx context.Context, d domain.DataDomain) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT shard_id FROM reference_shards WHERE domain = ? ORDER BY shard_id
	`, string(d))
	if err != nil {
		return nil, fmt.Errorf("querying shard ids: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning shard id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shard ids: %w", err)
	}

	return ids, nil
}

// getDocument reads and decodes the domain's top-level document.
func (s *shardStore) getDocument(ctx context.Context, d domain.DataDomain) (*domainDocument, error) {
	row := s.store.db.QueryRowContext(ctx,
		"SELECT body FROM reference_docs WHERE domain = ?", string(d))

	var body string
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	var doc domainDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling document: %w", err)
	}
	return &doc, nil
}
