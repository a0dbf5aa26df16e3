// Package pipeline implements the incremental native-artifact build: it
// decides which stages must re-run from file timestamps, schedules source
// compilation with bounded parallelism and fail-fast error propagation,
// and conditionally links the object set into the final artifact.
package pipeline

import "github.com/katharostech/khamake/internal/fsutil"

// Verdict classifies the rebuild scope for one target at pipeline start.
// Downstream stages consume it as given and never recompute it.
type Verdict int

const (
	// NoOp means the generated bindings are current.
	NoOp Verdict = iota
	// RebuildBindings means only the binding artifact must be regenerated.
	RebuildBindings
	// RebuildAll means everything is invalidated, including every object.
	RebuildAll
)

func (v Verdict) String() string {
	switch v {
	case NoOp:
		return "no-op"
	case RebuildBindings:
		return "rebuild-bindings"
	case RebuildAll:
		return "rebuild-all"
	default:
		return "unknown"
	}
}

// EvaluateStaleness derives the rebuild scope from three timestamps and one
// existence check. Configuration wins the tie-break over the description:
// a configuration change can alter how bindings are generated, a superset
// of what a description change alters. A missing binding artifact is
// first-time generation, never a full rebuild.
func EvaluateStaleness(configFile, descriptionFile, bindingArtifact string) Verdict {
	if !fsutil.Exists(bindingArtifact) {
		return RebuildBindings
	}
	if fsutil.Newer(configFile, bindingArtifact) {
		return RebuildAll
	}
	if fsutil.Newer(descriptionFile, bindingArtifact) {
		return RebuildBindings
	}
	return NoOp
}
