// Package driven defines the outbound port interfaces the core services
// depend on: the catalog source client, the shard document store, the
// scheduler store and the config store. Adapters implement these.
package driven
