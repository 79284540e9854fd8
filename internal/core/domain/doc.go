// Package domain defines the core business entities for StudyMate.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies apart from id generation and defines
// the fundamental types:
//
//   - RawDocument: A loaded file split into provenance-tagged units
//   - Passage: A retrievable slice of a unit
//   - QARecord: One answered question with the evidence shown to the model
//   - AppSettings: Provider, chunking, retrieval and indexing configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, github.com/google/uuid
//   - Cannot Import: Any internal/ package
package domain
