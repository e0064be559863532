package driving

import (
	"context"

	"github.com/questtrack/refsync/internal/core/domain"
)

// SyncRunner triggers reference-data synchronisation.
type SyncRunner interface {
	// RunSync synchronises every data domain independently and returns a
	// report of per-domain outcomes. A failure in one domain never prevents
	// the others from updating; RunSync only returns an error when the run
	// itself could not start.
	RunSync(ctx context.Context) (*domain.SyncReport, error)

	// RunDomain synchronises a single data domain.
	RunDomain(ctx context.Context, d domain.DataDomain) (*domain.DomainResult, error)
}

// SyncStatus describes an in-flight sync for a domain.
type SyncStatus struct {
	// Domain is the data domain being synced.
	Domain domain.DataDomain

	// Running is true while the domain's sync is in flight.
	Running bool

	// Stage is the pipeline stage currently executing.
	Stage domain.SyncStage
}
