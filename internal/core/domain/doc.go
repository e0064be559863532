// Package domain contains the core types for reference-data synchronisation
// and the sharded cache: data domains, records, shard generations, the
// tiered read path's cache views, sync reports and configuration.
//
// The package has no dependencies on adapters or services; it defines the
// vocabulary the rest of the system speaks.
package domain
