// Package file provides the TOML-file implementation of the ConfigStore
// port. Settings live in config.toml under the refsync config directory and
// are re-read automatically when the file changes on disk.
package file
