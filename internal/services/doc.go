// Package services defines shared utilities consumed by the pipeline stage
// clients and the workflow runner.
//
// Key responsibilities:
//   - Context helpers that stamp case names, stage names, and batch run
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper so failures classify
//     consistently (tool failure vs timeout vs missing precondition).
//
// Use these helpers when wiring new stage logic so operational behaviour
// stays uniform across the pipeline.
package services
