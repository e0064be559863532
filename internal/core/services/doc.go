// Package services contains the core application services: the pure shard
// planner, the generation-committing shard writer, the sync orchestrator,
// the tiered cache reader, the background scheduler and the cache event hub.
// Services depend only on domain types and port interfaces.
package services
