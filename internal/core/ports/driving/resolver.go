package driving

import (
	"context"

	"github.com/questtrack/refsync/internal/core/domain"
)

// CacheResolver is the consumer-side tiered read path over the reference
// data cache: sharded collection, then legacy fallback document, then a
// live catalog fetch. The first non-empty tier wins and the precedence
// order is fixed.
type CacheResolver interface {
	// Resolve returns the domain's record set together with the serving
	// tier and its freshness. Only the live tier can fail; its failure is
	// returned as a *domain.ResolveError rather than swallowed.
	Resolve(ctx context.Context, d domain.DataDomain) (*domain.CacheView, error)
}

// CacheEvents is an optional push abstraction for consumers that want to be
// told when a domain's cache generation changes. Pull (Resolve) remains the
// primary contract; events carry no record data.
type CacheEvents interface {
	// Subscribe returns a channel of cache updates for the domain and a
	// cancel function that releases the subscription. Slow subscribers may
	// miss intermediate updates; they never block the writer.
	Subscribe(d domain.DataDomain) (<-chan domain.CacheUpdate, func())
}
