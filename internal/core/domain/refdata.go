package domain

import "fmt"

// DataDomain identifies one independently synchronised reference-data
// category. Each domain is fetched, sharded and cached on its own; a failure
// in one domain never blocks the others.
type DataDomain string

// Supported data domains.
const (
	DomainTasks   DataDomain = "tasks"
	DomainHideout DataDomain = "hideout"
	DomainItems   DataDomain = "items"
)

// AllDomains returns every supported data domain in sync order.
func AllDomains() []DataDomain {
	return []DataDomain{DomainTasks, DomainHideout, DomainItems}
}

// Valid reports whether d is a supported data domain.
func (d DataDomain) Valid() bool {
	switch d {
	case DomainTasks, DomainHideout, DomainItems:
		return true
	}
	return false
}

// PayloadField returns the top-level array field that the catalog API uses
// for this domain. A response missing this field is malformed, not empty.
func (d DataDomain) PayloadField() string {
	switch d {
	case DomainTasks:
		return "tasks"
	case DomainHideout:
		return "hideoutStations"
	case DomainItems:
		return "items"
	}
	return ""
}

// DocumentPath returns the document-store path for the domain's top-level
// document (shard metadata when sharded, legacy single document otherwise).
func (d DataDomain) DocumentPath() string {
	return "referenceData/" + string(d)
}

// ShardPath returns the document-store path for one shard of the domain.
func (d DataDomain) ShardPath(shardID string) string {
	return "referenceData/" + string(d) + "/shards/" + shardID
}

// ParseDomain converts a string to a DataDomain.
func ParseDomain(s string) (DataDomain, error) {
	d := DataDomain(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: unknown data domain %q", ErrInvalidInput, s)
	}
	return d, nil
}
