// Package diag defines the diagnostic model shared by all pipeline phases.
//
//   - Diagnostic is the central record: Severity, Code (stable string form),
//     Message, Primary span and optional Notes.
//   - Bag accumulates diagnostics in append order. Append order is the only
//     ordering guarantee the analysis context makes; nothing here sorts by
//     location.
//   - Reporter decouples emission from storage so phases never touch a Bag
//     directly. BagReporter is the standard adapter.
//
// Package diag performs no formatting or IO. Rendering lives in
// internal/diagfmt; orchestration lives in internal/pipeline.
package diag
