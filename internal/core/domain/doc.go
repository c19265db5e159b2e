// Package domain defines the core business entities for Descry.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Candidate: A processor's proposed span before reconciliation
//   - Description: A reconciled visual description, the final output
//   - ProcessorConfig: Tunable settings of one extraction processor
//   - ExtractionMode: The five processing-mode strategies
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
