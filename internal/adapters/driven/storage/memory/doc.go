// Package memory provides in-memory store implementations used by tests
// and by the CLI when persistence is disabled.
package memory
