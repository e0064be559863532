package driven

import (
	"context"

	"github.com/questtrack/refsync/internal/core/domain"
)

// SourceClient fetches one data domain from the external game-data catalog.
//
// Implementations own retry and backoff: a call either returns the full
// record list or a terminal *domain.FetchError that callers must not retry
// within the same sync cycle. Responses are validated structurally before
// being accepted; a malformed response is a failure, never an empty dataset.
type SourceClient interface {
	// Fetch returns all records for the domain in catalog order.
	Fetch(ctx context.Context, d domain.DataDomain) ([]domain.Record, error)
}
