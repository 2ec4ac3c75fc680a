// Package domain defines the core entities for ExonaScope case intake.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - IntakeFile: One uploaded artifact awaiting extraction
//   - ExtractionResult: The typed outcome of extracting one file
//   - CorpusDocument: Source-tagged text of every successful extraction
//   - CaseState: The immutable record carried between workflow stages
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
