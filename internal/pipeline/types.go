package pipeline

import "fmt"

// ArtifactSet is the ordered object-artifact paths handed to the linker.
// Order follows source discovery order, not compile completion order.
type ArtifactSet []string

// CompileOutcome is the per-source result of one scheduled unit.
type CompileOutcome int

const (
	// OutcomeSkipped means the object artifact was already current.
	OutcomeSkipped CompileOutcome = iota
	// OutcomeCompiled means the compiler ran and produced a fresh object.
	OutcomeCompiled
	// OutcomeFailed means the compiler invocation was classified a failure.
	OutcomeFailed
)

// LinkOutcome is the terminal result of the link stage.
type LinkOutcome int

const (
	// LinkSkipped means the existing final artifact is assumed current.
	LinkSkipped LinkOutcome = iota
	// Linked means the linker ran and produced the final artifact.
	Linked
	// LinkFailed means the linker invocation failed.
	LinkFailed
)

func (o LinkOutcome) String() string {
	switch o {
	case LinkSkipped:
		return "skipped-up-to-date"
	case Linked:
		return "linked"
	case LinkFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CompileError carries the diagnostic output of the first failing unit.
// Compilation of a target surfaces at most one of these per run.
type CompileError struct {
	Source string // root-relative path of the failing source
	Output string // captured stderr of the compiler
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling %s: %s", e.Source, e.Output)
}

// Report summarizes one target's pipeline run for the caller.
type Report struct {
	Target   string
	Verdict  Verdict
	Compiled bool // at least one source was actually compiled
	Link     LinkOutcome
}
