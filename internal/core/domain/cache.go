package domain

import "time"

// CacheTier identifies which read-path level served a resolve call.
type CacheTier string

// Read-path tiers in precedence order.
const (
	// TierSharded serves from the current shard generation.
	TierSharded CacheTier = "sharded"

	// TierFallbackDoc serves from the legacy single document.
	TierFallbackDoc CacheTier = "fallbackDoc"

	// TierLive serves from a direct catalog fetch.
	TierLive CacheTier = "live"
)

// CacheView is the result of resolving a domain through the tiered read
// path: the record set plus which tier produced it and how fresh it is.
type CacheView struct {
	// Domain is the resolved data domain.
	Domain DataDomain

	// Records is the full record list in catalog order.
	Records []Record

	// Tier is the read-path level that produced the data.
	Tier CacheTier

	// AsOf is the serving tier's updatedAt timestamp.
	AsOf time.Time
}

// StalerThan reports whether the view's data is older than maxAge. Callers
// combine this with Tier to decide whether to show an outdated-data
// affordance.
func (v *CacheView) StalerThan(maxAge time.Duration) bool {
	if v.AsOf.IsZero() {
		return true
	}
	return time.Since(v.AsOf) > maxAge
}

// CacheUpdate is published after a domain's cache generation changes.
type CacheUpdate struct {
	// Domain is the domain whose cache was rewritten.
	Domain DataDomain

	// ShardCount is the new generation's shard count.
	ShardCount int

	// RecordCount is the number of records in the new generation.
	RecordCount int

	// UpdatedAt is the new generation's commit time.
	UpdatedAt time.Time
}
