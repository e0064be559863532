package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedResponse indicates the catalog response failed structural
	// validation. Treated as a fetch failure, never as an empty dataset, so
	// a bad response cannot overwrite a good cache generation.
	ErrMalformedResponse = errors.New("malformed catalog response")

	// ErrEmptyDataset indicates the catalog returned a structurally valid
	// but empty record list. Writing it would wipe a good generation, so
	// the sync treats it as a failure.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrSyncInProgress indicates a sync is already running for a domain.
	ErrSyncInProgress = errors.New("sync in progress")
)

// WriteStage identifies which step of the shard write sequence failed.
type WriteStage string

// Write sequence stages, in execution order.
const (
	WriteStageShards   WriteStage = "shards"
	WriteStageMetadata WriteStage = "metadata"
	WriteStageOrphans  WriteStage = "orphans"
)

// FetchError is the terminal failure of a catalog fetch after all retry
// attempts. The orchestrator must not retry it within the same cycle.
type FetchError struct {
	Domain   DataDomain
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: giving up after %d attempts: %v", e.Domain, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError is a failure of the shard write sequence, carrying the domain
// and the failing stage. A failure in the shards stage leaves the previous
// generation fully intact; a failure in the orphans stage leaves extra,
// unreferenced shard documents behind.
type WriteError struct {
	Domain DataDomain
	Stage  WriteStage
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: stage %s: %v", e.Domain, e.Stage, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ResolveError indicates every read-path tier was exhausted and the live
// fetch also failed. There is no further fallback; callers should render an
// explicit data-unavailable state.
type ResolveError struct {
	Domain DataDomain
	Err    error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s: all tiers exhausted: %v", e.Domain, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// IsFetchError checks if the error is a terminal fetch failure.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsWriteError checks if the error is a shard write failure and returns the
// failing stage when it is.
func IsWriteError(err error) (WriteStage, bool) {
	var we *WriteError
	if errors.As(err, &we) {
		return we.Stage, true
	}
	return "", false
}

// IsResolveError checks if the error indicates all read tiers failed.
func IsResolveError(err error) bool {
	var re *ResolveError
	return errors.As(err, &re)
}
