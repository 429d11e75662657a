// Package domain defines the core business entities for ContextGuard.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A loaded document held for one analysis session
//   - Chunk: One tagged paragraph of a document, addressable by title and index
//   - Issue: A contradiction between two quoted spans
//   - CheckState: Where the current analysis run stands
//   - Availability: Whether the contradiction detector can be used right now
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
