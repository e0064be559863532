package mcp

import (
	"github.com/questtrack/refsync/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Resolver serves reference data through the tiered read path.
	Resolver driving.CacheResolver

	// Sync triggers synchronisation runs. Optional; without it the
	// sync tool is not registered.
	Sync driving.SyncRunner
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Resolver == nil {
		return ErrMissingResolver
	}
	return nil
}
