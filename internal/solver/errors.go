package solver

import (
	"errors"
	"fmt"
)

// ErrNoVehicles aborts a run before the optimization engine is invoked.
var ErrNoVehicles = errors.New("no vehicles defined")

// ErrNoSolution means the engine found no feasible assignment even with
// order drops allowed. Terminal for the run: nothing is persisted and the
// run must not be retried without new input.
var ErrNoSolution = errors.New("no feasible assignment found")

// Pipeline stages, used to tag failures for diagnosis without re-running.
const (
	StageBuild     = "build"
	StageFormulate = "formulate"
	StageSolve     = "solve"
	StagePersist   = "persist"
	StageExport    = "export"
)

// PipelineError carries the failing stage alongside the cause.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	return &PipelineError{Stage: stage, Err: err}
}
