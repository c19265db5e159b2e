// Package extractors provides implementations of the Extractor interface.
// Each engine proposes candidate spans for one or more description types;
// the coordinator treats them all as black boxes and reconciles their
// output through voting.
//
// Extractors are registered with the ProcessorRegistry at startup.
package extractors
