package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsFetchError(t *testing.T) {
	base := errors.New("503")
	err := &FetchError{Domain: DomainTasks, Attempts: 3, Err: base}

	assert.True(t, IsFetchError(err))
	assert.True(t, IsFetchError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsFetchError(base))
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "3 attempts")
}

func TestIsWriteError(t *testing.T) {
	err := &WriteError{Domain: DomainItems, Stage: WriteStageMetadata, Err: errors.New("disk full")}

	stage, ok := IsWriteError(err)
	assert.True(t, ok)
	assert.Equal(t, WriteStageMetadata, stage)

	stage, ok = IsWriteError(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, WriteStageMetadata, stage)

	_, ok = IsWriteError(errors.New("plain"))
	assert.False(t, ok)
}

func TestIsResolveError(t *testing.T) {
	inner := &FetchError{Domain: DomainTasks, Attempts: 3, Err: errors.New("down")}
	err := &ResolveError{Domain: DomainTasks, Err: inner}

	assert.True(t, IsResolveError(err))
	assert.False(t, IsResolveError(inner))

	// The terminal fetch failure stays reachable through the chain
	assert.True(t, IsFetchError(err))
}
