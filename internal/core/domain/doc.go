// Package domain defines the core business entities for chatlens.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Message: A single normalised chat message
//   - Transcript: An imported chat export with its parsed messages
//   - AnalysisResult: Aggregate statistics over a message set
//   - SearchResult: The outcome of a keyword, sentiment, financial or semantic search
//   - RawFile: Opaque bytes handed to the ingestion boundary
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
