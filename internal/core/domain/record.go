package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one catalog entry. The payload is domain-specific and kept as
// raw JSON so that re-serialising a record reproduces the exact bytes the
// catalog returned; only the stable "id" field is interpreted. Byte-exact
// round-tripping is what makes shard planning deterministic.
type Record struct {
	// ID is the record's stable identifier, unique within a domain.
	ID string

	raw json.RawMessage
}

// recordEnvelope extracts the id field during decoding.
type recordEnvelope struct {
	ID string `json:"id"`
}

// NewRecord creates a record from raw JSON bytes.
func NewRecord(raw []byte) (Record, error) {
	var r Record
	if err := r.UnmarshalJSON(raw); err != nil {
		return Record{}, err
	}
	return r, nil
}

// UnmarshalJSON keeps the raw bytes and extracts the id field.
// A record without a non-empty string id is rejected.
func (r *Record) UnmarshalJSON(data []byte) error {
	var env recordEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	if env.ID == "" {
		return fmt.Errorf("%w: record missing id field", ErrMalformedResponse)
	}
	r.ID = env.ID
	r.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// MarshalJSON returns the original raw bytes unchanged.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.raw == nil {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// Size returns the serialised size of the record in bytes.
func (r Record) Size() int {
	return len(r.raw)
}

// Raw returns the record's raw JSON bytes. The slice must not be modified.
func (r Record) Raw() json.RawMessage {
	return r.raw
}

// Equal reports whether two records have identical raw bytes.
func (r Record) Equal(other Record) bool {
	return bytes.Equal(r.raw, other.raw)
}
