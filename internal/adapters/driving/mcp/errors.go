// Package mcp provides an MCP (Model Context Protocol) server adapter for
// refsync. It exposes the cached reference data to AI assistants as a lookup
// tool and as refdata:// resources.
package mcp

import "errors"

// ErrMissingResolver is returned when the cache resolver is not provided.
var ErrMissingResolver = errors.New("mcp: cache resolver is required")
