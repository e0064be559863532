// Package catalog implements the SourceClient port against the external
// game-data GraphQL API. The client owns retry with a bounded, lightly
// jittered delay, proactive request throttling, and structural validation
// of each response before it is accepted.
package catalog
