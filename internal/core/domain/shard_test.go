package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShardID(t *testing.T) {
	assert.Equal(t, "000", ShardID(0))
	assert.Equal(t, "001", ShardID(1))
	assert.Equal(t, "042", ShardID(42))
	assert.Equal(t, "999", ShardID(999))
	// Beyond three digits the ids simply widen
	assert.Equal(t, "1000", ShardID(1000))
}

func TestShardMetadata_Validate(t *testing.T) {
	meta := &ShardMetadata{
		SchemaVersion: SchemaVersion,
		Sharded:       true,
		ShardCount:    3,
		ShardIDs:      []string{"000", "001", "002"},
		UpdatedAt:     time.Now().UTC(),
		Source:        "sync",
	}
	assert.NoError(t, meta.Validate())
}

func TestShardMetadata_Validate_CountMismatch(t *testing.T) {
	meta := &ShardMetadata{
		ShardCount: 2,
		ShardIDs:   []string{"000"},
	}
	err := meta.Validate()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestShardMetadata_Validate_NonSequentialIDs(t *testing.T) {
	meta := &ShardMetadata{
		ShardCount: 2,
		ShardIDs:   []string{"000", "002"},
	}
	err := meta.Validate()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestShardMetadata_Validate_Empty(t *testing.T) {
	meta := &ShardMetadata{ShardCount: 0, ShardIDs: nil}
	assert.NoError(t, meta.Validate())
}

func TestShardConstants(t *testing.T) {
	// The byte budget must leave headroom under the store's hard ceiling
	assert.Less(t, DefaultShardByteBudget, MaxShardDocumentBytes)
	assert.Equal(t, 700*1024, DefaultShardByteBudget)
	assert.Equal(t, 500, DefaultMaxItemsPerShard)
}
