// Package astjson implements the bidirectional mapping between the arena
// AST and the JSON interchange format used across the runtime boundary.
//
// A document is tagged with a pipeline-stage marker. At Parsed only
// syntactic fields are emitted; at AnalysisSuccessful every declaration and
// reference additionally carries its scope, type descriptor and resolved
// declaration id. Import accepts only Parsed documents: semantic fields from
// an external producer are never trusted, they are recomputed by the
// pipeline so every back-reference is guaranteed to point into this
// process's arena.
package astjson

// Stage marks which annotation fields a document is expected to carry.
type Stage string

const (
	StageParsed             Stage = "Parsed"
	StageAnalysisSuccessful Stage = "AnalysisSuccessful"
)
