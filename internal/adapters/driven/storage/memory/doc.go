// Package memory provides in-memory implementations of the driven store
// ports. They are used by tests and as lightweight stand-ins when no
// persistence is wanted.
package memory
