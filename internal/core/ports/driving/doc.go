// Package driving defines the inbound port interfaces through which
// adapters (CLI, MCP, scheduler wiring) drive the core services.
package driving
