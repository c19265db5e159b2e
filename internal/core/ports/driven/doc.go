// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Proposes candidate spans for chapter text
//   - PostProcessor / PostProcessorPipeline: Refines reconciled results
//   - SentenceSplitter: Sentence boundaries for context enrichment
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - DescriptionStore: Persistence for finished results. The core hands
//     results back to the caller either way.
//   - ConfigStore: Backing storage for processor settings.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
